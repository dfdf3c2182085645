package httputil

import (
	"net/http"

	"github.com/percytech/hubgate/pkg/hub"
)

// RequestHub resolves which hub a request arrived on. Behind a proxy
// the original host travels in X-Forwarded-Host; otherwise the Host
// header is authoritative. Resolution never fails: an unrecognized
// host falls back to the default hub.
func RequestHub(r *http.Request) hub.Hub {
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	return hub.ResolveHost(host)
}
