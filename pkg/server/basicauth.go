package server

import (
	"net/http"

	"github.com/goji/httpauth"
)

// SingleUserBasicAuth is negroni middleware that requires one fixed
// username and password.
type SingleUserBasicAuth struct {
	Username string
	Password string
}

func (c *SingleUserBasicAuth) ServeHTTP(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	httpauth.SimpleBasicAuth(c.Username, c.Password)(next).ServeHTTP(w, r)
}
