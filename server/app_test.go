package server

import (
	"encoding/json"
	"html"
	"io/ioutil"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/Daskott/rolodex/server/auth/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	formKeyPattern       = regexp.MustCompile(`name="_formkey" value="([^"]+)"`)
	deleteContactPattern = regexp.MustCompile(`href="(/contacts/delete_contact\?[^"]+)"`)
)

type testClient struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
}

func newTestServer(t *testing.T, app *App) *httptest.Server {
	server := httptest.NewServer(app.Router())
	t.Cleanup(server.Close)
	return server
}

// newTestClient is a browser with its own cookies, i.e. its own session
func newTestClient(t *testing.T, server *httptest.Server) *testClient {
	jar, err := cookiejar.New(nil)
	require.Nil(t, err)

	return &testClient{t: t, server: server, client: &http.Client{Jar: jar}}
}

// get follows redirects & returns the final status, path & body
func (tc *testClient) get(path string) (int, string, string) {
	res, err := tc.client.Get(tc.server.URL + path)
	require.Nil(tc.t, err)
	return tc.read(res)
}

// submit fetches the form at path for its key, then posts values to it
func (tc *testClient) submit(path string, values url.Values) (int, string, string) {
	_, _, body := tc.get(path)

	match := formKeyPattern.FindStringSubmatch(body)
	require.Len(tc.t, match, 2, "Expected a form key in %v", path)
	values.Set("_formkey", html.UnescapeString(match[1]))

	res, err := tc.client.PostForm(tc.server.URL+path, values)
	require.Nil(tc.t, err)
	return tc.read(res)
}

func (tc *testClient) read(res *http.Response) (int, string, string) {
	defer res.Body.Close()

	body, err := ioutil.ReadAll(res.Body)
	require.Nil(tc.t, err)
	return res.StatusCode, res.Request.URL.RequestURI(), string(body)
}

func TestContactsFlow(t *testing.T) {
	app := newTestApp(t)
	client := newTestClient(t, newTestServer(t, app))

	status, path, body := client.get("/")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "/auth/login?next=%2Fcontacts%2Findex", path)
	assert.Contains(t, body, "Log in")

	status, path, _ = client.submit("/auth/register", url.Values{
		"first_name": {"Ada"},
		"last_name":  {"Lovelace"},
		"email":      {"ada@example.com"},
		"password":   {"password"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "/contacts/index", path)

	_, path, body = client.submit("/contacts/add_contact", url.Values{"first_name": {"Charles"}, "last_name": {"Babbage"}})
	assert.Equal(t, "/contacts/index", path)
	assert.Contains(t, body, "Charles")
	assert.Contains(t, body, "ada@example.com", "Navbar should show the logged in user")

	_, path, body = client.submit("/contacts/add_phone/1", url.Values{"phone_number": {"555-0100"}, "kind": {"mobile"}})
	assert.Equal(t, "/contacts/edit_phone/1", path)
	assert.Contains(t, body, "555-0100")

	_, _, body = client.get("/contacts/index")
	assert.Contains(t, body, "555-0100 (mobile)")

	match := deleteContactPattern.FindStringSubmatch(body)
	require.Len(t, match, 2)
	deleteURL := html.UnescapeString(match[1])

	status, _, _ = client.get("/contacts/delete_contact?contact_id=1")
	assert.Equal(t, http.StatusForbidden, status, "Unsigned delete should be rejected")

	status, _, _ = client.get(strings.Replace(deleteURL, "contact_id=1", "contact_id=2", 1))
	assert.Equal(t, http.StatusForbidden, status, "Signature should not cover other ids")

	_, _, body = client.get("/contacts/index")
	assert.Contains(t, body, "Charles")

	status, path, body = client.get(deleteURL)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "/contacts/index", path)
	assert.NotContains(t, body, "Charles")

	_, path, _ = client.get("/auth/logout")
	assert.Equal(t, "/auth/login", path)

	status, _, _ = client.get(deleteURL)
	assert.Equal(t, http.StatusOK, status)
	_, path, _ = client.get("/contacts/index")
	assert.Equal(t, "/auth/login?next=%2Fcontacts%2Findex", path)
}

func TestSignedURLsAreBoundToSession(t *testing.T) {
	app := newTestApp(t)
	server := newTestServer(t, app)
	owner := newTestClient(t, server)
	owner.submit("/auth/register", url.Values{
		"first_name": {"Ada"},
		"last_name":  {"Lovelace"},
		"email":      {"ada@example.com"},
		"password":   {"password"},
	})
	_, _, body := owner.submit("/contacts/add_contact", url.Values{"first_name": {"Charles"}, "last_name": {"Babbage"}})

	match := deleteContactPattern.FindStringSubmatch(body)
	require.Len(t, match, 2)
	deleteURL := html.UnescapeString(match[1])

	// same account, different session
	other := newTestClient(t, server)
	other.submit("/auth/login", url.Values{"email": {"ada@example.com"}, "password": {"password"}})

	status, _, _ := other.get(deleteURL)
	assert.Equal(t, http.StatusForbidden, status)

	contacts, _ := app.store.ContactsForUser("ada@example.com")
	assert.Len(t, contacts, 1)
}

func TestJWKS(t *testing.T) {
	app := newTestApp(t)
	client := newTestClient(t, newTestServer(t, app))

	res, err := client.client.Get(client.server.URL + "/.well-known/jwks.json")
	require.Nil(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	jwks := struct {
		Keys []map[string]interface{} `json:"keys"`
	}{}
	require.Nil(t, json.NewDecoder(res.Body).Decode(&jwks))
	require.Len(t, jwks.Keys, 1)
	assert.Equal(t, testKeyPair.Kid, jwks.Keys[0]["kid"])
	assert.Equal(t, "RS256", jwks.Keys[0]["alg"])
}

func TestPublishedKeys(t *testing.T) {
	jwks, err := publishedKeys(testKeyPair)
	require.Nil(t, err)
	assert.Len(t, jwks.Keys, 1)

	otherKeyPair, err := key.GenerateKeyPair()
	require.Nil(t, err)

	mismatched := *testKeyPair
	mismatched.PublicKey = otherKeyPair.PublicKey
	_, err = publishedKeys(&mismatched)
	assert.NotNil(t, err)
}
