package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdoering/marquee/internal/domain"
)

func TestRegister_SendsExactBody(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)

		assert.Empty(t, r.Header.Get("Authorization"), "signup must be unauthenticated")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"Username":"a"}`))
	}))

	err := client.Register(context.Background(), domain.Registration{
		Username: "a",
		Password: "p",
		Email:    "a@b.com",
		Birthday: "2000-01-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "/users/signup", gotPath)
	assert.Equal(t, map[string]string{
		"Username": "a",
		"Password": "p",
		"Email":    "a@b.com",
		"Birthday": "2000-01-01",
	}, gotBody)
}

func TestRegister_ValidationError(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":["Username taken"]}`))
	}))

	err := client.Register(context.Background(), domain.Registration{Username: "a"})

	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Username taken", validation.Message())
}

func TestRegister_MultipleValidationErrors(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":["Username taken","Email invalid"]}`))
	}))

	err := client.Register(context.Background(), domain.Registration{Username: "a"})

	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Username taken. Email invalid", validation.Message())
}

func TestLogin_Success(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{
			"user": {"Username":"lina","Email":"lina@example.com","Birthday":"1999-05-01","FavoriteMovies":["m1","m2"]},
			"token": "fresh-token"
		}`))
	}))

	sess, err := client.Login(context.Background(), domain.Credentials{Username: "lina", Password: "p"})
	require.NoError(t, err)

	assert.Equal(t, "fresh-token", sess.Token)
	assert.Equal(t, "lina", sess.User.Username)
	assert.Equal(t, []string{"m1", "m2"}, sess.User.FavoriteMovieIDs)
}

func TestLogin_BadCredentials(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`something is not right`))
	}))

	_, err := client.Login(context.Background(), domain.Credentials{Username: "lina", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestLogin_MissingToken(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user": {"Username":"lina"}}`))
	}))

	_, err := client.Login(context.Background(), domain.Credentials{Username: "lina", Password: "p"})

	var shape *domain.DataShapeError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, "token", shape.Field)
}

func TestUpdateProfile_OmitsEmptyFields(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPut, r.Method)
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"Username":"lina","Email":"new@example.com","FavoriteMovies":[]}`))
	}))

	user, err := client.UpdateProfile(context.Background(), domain.ProfileUpdate{Email: "new@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "/users/update/lina", gotPath)
	assert.Equal(t, map[string]string{"Email": "new@example.com"}, gotBody)
	assert.Equal(t, "new@example.com", user.Email)
}

func TestDeleteAccount(t *testing.T) {
	var gotPath, gotMethod string
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`account removed`))
	}))

	require.NoError(t, client.DeleteAccount(context.Background()))

	assert.Equal(t, "/users/deregister/lina", gotPath)
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestAccountCalls_RequireSession(t *testing.T) {
	client, tokens, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected without a session")
	}))
	tokens.set("", "")

	ctx := context.Background()

	_, err := client.GetUser(ctx)
	assert.ErrorIs(t, err, domain.ErrNoSession)

	_, err = client.UpdateProfile(ctx, domain.ProfileUpdate{Email: "x@y.z"})
	assert.ErrorIs(t, err, domain.ErrNoSession)

	assert.ErrorIs(t, client.DeleteAccount(ctx), domain.ErrNoSession)
}
