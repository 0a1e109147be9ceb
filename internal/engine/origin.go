package engine

import (
	"net/url"

	"github.com/thavarshan/fetch-go/internal/core/domain"
)

func originOf(rawURL string) (domain.Origin, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return domain.Origin{}, err
	}

	port := u.Port()
	if port == "" {
		port = defaultPort(u.Scheme)
	}

	return domain.Origin{Scheme: u.Scheme, Host: u.Hostname(), Port: port}, nil
}

func defaultPort(scheme string) string {
	if scheme == "https" {
		return "443"
	}
	return "80"
}
