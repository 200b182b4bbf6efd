package web

import (
	"crypto/subtle"

	log "github.com/go-pkgz/lgr"
	"golang.org/x/crypto/bcrypt"
)

// checkAuth validates basic auth credentials against the configured user and bcrypt hash
func (s *Server) checkAuth(user, passwd string) bool {
	if subtle.ConstantTimeCompare([]byte(user), []byte(s.authUser)) != 1 {
		log.Printf("[WARN] rejected basic auth for user %q", user)
		return false
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(passwd)); err != nil {
		log.Printf("[WARN] rejected basic auth for user %q, wrong password", user)
		return false
	}
	return true
}
