package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/Daskott/rolodex/server/auth"
	"github.com/Daskott/rolodex/server/form"
	"github.com/Daskott/rolodex/server/models"
	"gorm.io/gorm"
)

const (
	AUTH_APP   = "/auth"
	LOGIN_PATH = AUTH_APP + "/login"
)

var registerFields = []form.Field{
	{Name: "first_name", Label: "First name", Type: "text"},
	{Name: "last_name", Label: "Last name", Type: "text"},
	{Name: "email", Label: "Email", Type: "email"},
	{Name: "password", Label: "Password", Type: "password"},
}

var loginFields = []form.Field{
	{Name: "email", Label: "Email", Type: "email"},
	{Name: "password", Label: "Password", Type: "password"},
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func register(rc *RequestContext, r *http.Request) Result {
	f, err := form.New(AUTH_APP+"/register", registerFields, nil, rc.Signer)
	if err != nil {
		return serverError(err)
	}

	if err := f.Process(r, form.Struct(validate, bindUser)); err != nil {
		return Failure{Status: http.StatusBadRequest, Err: err}
	}

	if f.State() == form.ACCEPTED {
		user := parseUser(f.Vars)
		err := f.Persist(func() error { return rc.Store.CreateUser(user) })

		if errors.Is(err, models.ErrDuplicateEmail) {
			f.Errors["email"] = "Email is already taken"
		} else if err != nil {
			return serverError(err)
		} else {
			user.Password = ""
			rc.LogIn(user)
			logg.Infof("registered %v", user.Email)
			return Redirect{URL: CONTACTS_APP + "/index"}
		}
	}

	return Render{Template: "auth/register.html", Data: map[string]interface{}{"form": f}}
}

func logIn(rc *RequestContext, r *http.Request) Result {
	next := safeNext(r.URL.Query().Get("next"))
	action := LOGIN_PATH
	if next != "" {
		action += "?" + url.Values{"next": {next}}.Encode()
	}

	f, err := form.New(action, loginFields, nil, rc.Signer)
	if err != nil {
		return serverError(err)
	}

	if err := f.Process(r, form.Struct(validate, bindCredentials)); err != nil {
		return Failure{Status: http.StatusBadRequest, Err: err}
	}

	if f.State() == form.ACCEPTED {
		login, _ := bindCredentials(f.Vars)
		creds := login.(*credentials)

		user, err := authenticate(rc.Store, creds.Email, creds.Password)
		if err != nil {
			return serverError(err)
		}

		if user == nil {
			f.Errors["password"] = "email/password is invalid"
		} else {
			rc.LogIn(user)
			if next == "" {
				next = CONTACTS_APP + "/index"
			}
			return Redirect{URL: next}
		}
	}

	return Render{Template: "auth/login.html", Data: map[string]interface{}{"form": f}}
}

func logOut(rc *RequestContext, r *http.Request) Result {
	if rc.User != nil {
		logg.Infof("logged out %v", rc.User.Email)
		rc.LogOut()
	}
	return Redirect{URL: LOGIN_PATH}
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

// authenticate returns nil, nil when the email/password pair does not match an account
func authenticate(store *models.Store, email, password string) (*models.User, error) {
	passwordHash, err := store.FindUserPassword(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPasswordHash(password, passwordHash) {
		return nil, nil
	}

	return store.FindUserBy("email", email)
}

// safeNext only allows redirects to local paths
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

func parseUser(vars form.Vars) *models.User {
	return &models.User{
		FirstName: strings.TrimSpace(vars.Get("first_name")),
		LastName:  strings.TrimSpace(vars.Get("last_name")),
		Email:     strings.ToLower(strings.TrimSpace(vars.Get("email"))),
		Password:  vars.Get("password"),
	}
}

func bindUser(vars form.Vars) (interface{}, form.Errors) {
	return parseUser(vars), nil
}

func bindCredentials(vars form.Vars) (interface{}, form.Errors) {
	return &credentials{
		Email:    strings.ToLower(strings.TrimSpace(vars.Get("email"))),
		Password: vars.Get("password"),
	}, nil
}
