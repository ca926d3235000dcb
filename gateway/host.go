package gateway

import (
	"net"
	"net/http"
	"net/http/cgi"
	"net/http/fcgi"
)

// ServeFastCGI serves h over FastCGI. A nil listener accepts connections on
// stdin, which is how FastCGI process managers hand over the socket.
func ServeFastCGI(l net.Listener, h http.Handler) error {
	return fcgi.Serve(l, h)
}

// ServeCGI serves the single request described by the CGI environment.
func ServeCGI(h http.Handler) error {
	return cgi.Serve(h)
}
