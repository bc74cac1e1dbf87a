package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Daskott/rolodex/server/auth/key"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/server/urlsign"
	"github.com/Daskott/rolodex/server/validation"
	"github.com/Daskott/rolodex/server/views"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"
)

var validate = validation.New()

type AppConfig struct {
	Store        *models.Store
	KeyPair      *key.KeyPair
	SessionStore sessions.Store
	// SignatureLifespan of signed urls & form keys, 0 means they never expire
	SignatureLifespan time.Duration
}

type App struct {
	store             *models.Store
	keyPair           *key.KeyPair
	publishedJWKS     key.JWKS
	sessionStore      sessions.Store
	signatureLifespan time.Duration
	views             *views.Renderer
}

func NewApp(config AppConfig) (*App, error) {
	renderer, err := views.New()
	if err != nil {
		return nil, err
	}

	jwks, err := publishedKeys(config.KeyPair)
	if err != nil {
		return nil, err
	}

	return &App{
		store:             config.Store,
		keyPair:           config.KeyPair,
		publishedJWKS:     jwks,
		sessionStore:      config.SessionStore,
		signatureLifespan: config.SignatureLifespan,
		views:             renderer,
	}, nil
}

func (app *App) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware)

	router.HandleFunc("/.well-known/jwks.json", app.jwks).Methods("GET")
	router.Handle("/", app.handle(home)).Methods("GET")

	auth := router.PathPrefix(AUTH_APP).Subrouter()
	auth.Handle("/register", app.handle(register)).Methods("GET", "POST")
	auth.Handle("/login", app.handle(logIn)).Methods("GET", "POST")
	auth.Handle("/logout", app.handle(logOut)).Methods("GET", "POST")

	products := router.PathPrefix(PRODUCTS_APP).Subrouter()
	products.Handle("/", app.handle(viewProducts)).Methods("GET")
	products.Handle("/index", app.handle(viewProducts)).Methods("GET")
	products.Handle("/add_product", app.handle(addProduct)).Methods("GET", "POST")
	products.Handle("/edit_product/{product_id}", app.handle(editProduct)).Methods("GET", "POST")
	products.Handle("/delete_product", app.handle(requireSignature(deleteProduct))).Methods("GET", "POST")

	contacts := router.PathPrefix(CONTACTS_APP).Subrouter()
	contacts.Handle("/", app.handle(requireUser(viewContacts))).Methods("GET")
	contacts.Handle("/index", app.handle(requireUser(viewContacts))).Methods("GET")
	contacts.Handle("/add_contact", app.handle(requireUser(addContact))).Methods("GET", "POST")
	contacts.Handle("/edit_contact/{contact_id}", app.handle(requireUser(editContact))).Methods("GET", "POST")
	contacts.Handle("/delete_contact", app.handle(requireUser(requireSignature(deleteContact)))).Methods("GET", "POST")
	contacts.Handle("/edit_phone/{contact_id}", app.handle(requireUser(viewPhones))).Methods("GET")
	contacts.Handle("/add_phone/{contact_id}", app.handle(requireUser(addPhone))).Methods("GET", "POST")
	contacts.Handle("/edit_phone_number/{phone_id}", app.handle(requireUser(editPhoneNumber))).Methods("GET", "POST")
	contacts.Handle("/delete_phone", app.handle(requireUser(requireSignature(deletePhone)))).Methods("GET", "POST")

	return router
}

// handle builds the request context explicitly & hands it to action
func (app *App) handle(action Action) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rc, err := app.newRequestContext(r)
		if err != nil {
			app.writeResult(rw, r, nil, serverError(err))
			return
		}

		app.writeResult(rw, r, rc, action(rc, r))
	})
}

func (app *App) newRequestContext(r *http.Request) (*RequestContext, error) {
	session, err := app.sessionStore.Get(r, SESSION_NAME)
	if err != nil {
		// e.g. cookie signed with a rotated key, carry on with a fresh session
		logg.Infof("discarding undecodable session: %v", err)
	}

	rc := &RequestContext{Store: app.store, session: session}

	sessionKey, _ := session.Values[SESSION_SIGNING_KEY].(string)
	if sessionKey == "" {
		sessionKey = uuid.NewString()
		session.Values[SESSION_SIGNING_KEY] = sessionKey
		rc.sessionDirty = true
	}
	rc.Signer = urlsign.New(app.keyPair, sessionKey, app.signatureLifespan)

	userID, ok := session.Values[SESSION_USER_ID].(uint)
	if !ok {
		return rc, nil
	}

	user, err := app.store.FindUserBy("id", userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// account is gone
		rc.LogOut()
		return rc, nil
	}

	if err != nil {
		return nil, err
	}

	rc.User = user
	return rc, nil
}

func (app *App) writeResult(rw http.ResponseWriter, r *http.Request, rc *RequestContext, result Result) {
	if rc != nil && rc.sessionDirty {
		if err := rc.session.Save(r, rw); err != nil {
			logg.Errorf("could not save session: %v", err)
		}
	}

	switch res := result.(type) {
	case Redirect:
		http.Redirect(rw, r, res.URL, http.StatusSeeOther)

	case Render:
		data := res.Data
		if data == nil {
			data = map[string]interface{}{}
		}
		if rc != nil {
			data["user"] = rc.User
		}

		app.render(rw, http.StatusOK, res.Template, data)

	case Failure:
		if res.Status >= http.StatusInternalServerError {
			logg.Errorf("%v %v: %+v", r.Method, r.URL.Path, res.Err)
		} else {
			logg.Infof("%v %v: %v", r.Method, r.URL.Path, res.Err)
		}

		data := map[string]interface{}{"status": res.Status, "statusText": http.StatusText(res.Status)}
		if rc != nil {
			data["user"] = rc.User
		}

		app.render(rw, res.Status, "error.html", data)

	default:
		logg.Errorf("%v %v: unexpected result %T", r.Method, r.URL.Path, result)
		http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (app *App) render(rw http.ResponseWriter, status int, template string, data map[string]interface{}) {
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")

	// Render into a buffer first, so a template error can still become a 500
	buffer := new(bytes.Buffer)
	if err := app.views.Render(buffer, template, data); err != nil {
		logg.Error(err)
		http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(status)
	buffer.WriteTo(rw)
}

// jwks publishes the public key signed urls can be checked against
func (app *App) jwks(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Set("Content-Type", "application/json")
	json.NewEncoder(rw).Encode(app.publishedJWKS)
}

// publishedKeys builds the JWKS for keyPair & makes sure it reads back as keyPair's public key
func publishedKeys(keyPair *key.KeyPair) (key.JWKS, error) {
	keyPairJWK, err := keyPair.JWK()
	if err != nil {
		return key.JWKS{}, err
	}

	publicKey, err := key.PublicKeyFromJWK(keyPairJWK)
	if err != nil {
		return key.JWKS{}, err
	}

	if !publicKey.Equal(keyPair.PublicKey) {
		return key.JWKS{}, fmt.Errorf("published key %v does not match the signing key", keyPair.Kid)
	}

	return key.ExportJWKAsJWKS(keyPairJWK), nil
}

func home(rc *RequestContext, r *http.Request) Result {
	return Redirect{URL: CONTACTS_APP + "/index"}
}
