package session

import (
	"net/http"

	"github.com/gorilla/sessions"

	"maintenanceManagement/models"
)

const (
	keyUsername = "username"
	keyRole     = "role"
)

// CookieStore keeps the web session in a signed cookie.
type CookieStore struct {
	store *sessions.CookieStore
	name  string
}

// NewCookieStore signs cookies named name with secret. maxAge is in seconds.
func NewCookieStore(secret, name string, maxAge int) *CookieStore {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{store: cs, name: name}
}

// Provider returns the session carried by r. A missing or tampered cookie
// gives an empty session, which every lookup reports as unset.
func (c *CookieStore) Provider(r *http.Request) Provider {
	s, err := c.store.Get(r, c.name)
	if err != nil {
		return Session{}
	}
	username, _ := s.Values[keyUsername].(string)
	role, _ := s.Values[keyRole].(string)
	return Session{Name: username, Role: roleOf(role)}
}

// Save writes sess into the response cookie.
func (c *CookieStore) Save(w http.ResponseWriter, r *http.Request, sess Session) error {
	if err := sess.validate(); err != nil {
		return err
	}
	s, _ := c.store.Get(r, c.name)
	s.Values[keyUsername] = sess.Name
	s.Values[keyRole] = string(sess.Role)
	return s.Save(r, w)
}

// Clear expires the session cookie.
func (c *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	s, _ := c.store.Get(r, c.name)
	s.Values = map[interface{}]interface{}{}
	s.Options.MaxAge = -1
	return s.Save(r, w)
}

func roleOf(s string) models.Role {
	r := models.Role(s)
	if !r.Valid() {
		return ""
	}
	return r
}
