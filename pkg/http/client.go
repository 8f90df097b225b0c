package http

import (
	"fmt"
	"net/http"

	"github.com/wheelforge/wheelforge/pkg/global"
)

const UserAgentHeader = "User-Agent"

func UserAgent() string {
	return fmt.Sprintf("wheelforge/%s", global.Version)
}

type Transport struct {
	headers map[string]string
	base    http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range t.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// ProvideHTTPClient returns the client used for upstream index and wheel
// fetches, with the tool's user agent attached to every request.
func ProvideHTTPClient() *http.Client {
	return &http.Client{
		Transport: &Transport{
			headers: map[string]string{
				UserAgentHeader: UserAgent(),
			},
		},
	}
}
