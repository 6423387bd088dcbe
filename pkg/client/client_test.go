package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"rcb-marathon/pkg/common/config"
	"rcb-marathon/pkg/web/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(config.ClientConfig{BaseURL: srv.URL + "/", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "runner@example.com",
		"role":  "runner",
		"exp":   exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestListCategoriesDefaultsMissingFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/events/7/categories" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"data":[{"categoryId":5,"name":null,"distance":null,"unit":null}]}`)
	})

	got, err := c.ListCategories(context.Background(), 7)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	want := []Category{{ID: 5, Name: "Unnamed Category", Distance: 0, Unit: "km"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestListCategoriesAcceptsRawArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":"3","name":"Half Marathon","distance":21.0975,"distanceUnit":"km"},{"categoryId":4,"name":"","distance":"10","unit":"mi"}]`)
	})

	got, err := c.ListCategories(context.Background(), 1)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	want := []Category{
		{ID: 3, Name: "Half Marathon", Distance: 21.0975, Unit: "km"},
		{ID: 4, Name: "Unnamed Category", Distance: 10, Unit: "mi"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestListCategoriesUnexpectedShapeIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true}`)
	})

	got, err := c.ListCategories(context.Background(), 1)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %+v, %v", got, err)
	}
}

func TestHTTPErrorCarriesStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.ListEvents(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Error() != "HTTP error! status: 502" {
		t.Fatalf("unexpected error %+v (%q)", apiErr, apiErr.Error())
	}
}

func TestHTTPErrorUsesServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"success":false,"code":409003,"error":"category is full"}`)
	})

	_, err := c.SubmitRegistration(context.Background(), model.CreateRegistrationReq{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != 409003 || apiErr.Error() != "category is full" {
		t.Fatalf("unexpected error %v", err)
	}
	if StatusOf(err) != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", StatusOf(err))
	}
}

func TestTransportFailureIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(config.ClientConfig{BaseURL: url, Timeout: time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.ListEvents(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 0 || apiErr.Err == nil {
		t.Fatalf("expected transport APIError, got %v", err)
	}
	if apiErr.Error() != genericFailure {
		t.Fatalf("unexpected message %q", apiErr.Error())
	}
}

func TestGetEventBareAndWrapped(t *testing.T) {
	for _, body := range []string{
		`{"eventId":1,"name":"Dhaka Marathon 2025","location":"Dhaka"}`,
		`{"success":true,"data":{"id":1,"name":"Dhaka Marathon 2025","location":"Dhaka"}}`,
	} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, body)
		})
		got, err := c.GetEvent(context.Background(), 1)
		if err != nil {
			t.Fatalf("get event: %v", err)
		}
		if got.ID != 1 || got.Name != "Dhaka Marathon 2025" || got.Location != "Dhaka" {
			t.Fatalf("unexpected event %+v from %s", got, body)
		}
	}
}

func TestLoginStoresSessionAndSendsBearer(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, exp)

	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			io.WriteString(w, `{"success":true,"token":"`+token+`"}`)
		case "/api/registration":
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"success":true,"data":{"registration":{"id":42}}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	s, err := c.Login(context.Background(), "runner@example.com", "Secret#123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !s.ExpiresAt.Equal(exp) || s.Email != "runner@example.com" {
		t.Fatalf("unexpected session %+v", s)
	}
	if !c.Session().Valid(time.Now()) {
		t.Fatalf("expected valid session")
	}

	res, err := c.SubmitRegistration(context.Background(), model.CreateRegistrationReq{FirstName: "John"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.Success || res.ID != 42 {
		t.Fatalf("unexpected result %+v", res)
	}
	if gotAuth != "Bearer "+token {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
}

func TestSessionExpiry(t *testing.T) {
	s, err := NewSession(signedToken(t, time.Now().Add(-time.Minute)))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if s.Valid(time.Now()) {
		t.Fatalf("expired session reported valid")
	}
	var nilSession *Session
	if nilSession.Valid(time.Now()) {
		t.Fatalf("nil session reported valid")
	}
	if _, err := NewSession("not-a-token"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "//") {
			t.Errorf("double slash in %s", r.URL.Path)
		}
		io.WriteString(w, `[]`)
	})
	if strings.HasSuffix(c.BaseURL(), "/") {
		t.Fatalf("base url kept trailing slash: %s", c.BaseURL())
	}
	if _, err := c.ListEvents(context.Background()); err != nil {
		t.Fatalf("list events: %v", err)
	}
}

func TestFilterEvents(t *testing.T) {
	events := []Event{
		{ID: 1, Name: "Dhaka Marathon", Location: "Hatirjheel"},
		{ID: 2, Name: "Palestine Run", Location: "Dhaka University"},
		{ID: 3, Name: "Sylhet Trail", Location: "Sylhet"},
	}

	got := FilterEvents(events, " DHAKA ")
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("unexpected filter result %+v", got)
	}
	if len(FilterEvents(events, "")) != 3 {
		t.Fatalf("empty query must keep all events")
	}
}
