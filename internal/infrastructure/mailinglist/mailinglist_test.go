package mailinglist

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailchimp_NotConfigured(t *testing.T) {
	res, err := NewMailchimp("", "", time.Second).Subscribe(context.Background(), Contact{Email: "a@b.co"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, res.Success)
	assert.Equal(t, "Mailchimp not configured", res.Message)
}

func TestMailchimp_InvalidKeyFormat(t *testing.T) {
	_, err := NewMailchimp("nodatacenter", "list", time.Second).Subscribe(context.Background(), Contact{Email: "a@b.co"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotConfigured))
}

func TestMailchimp_CreatesMember(t *testing.T) {
	var body mailchimpMember
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/lists/L1/members", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "any", user)
		assert.Equal(t, "key-us21", pass)
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = io.WriteString(w, `{"id":"abc"}`)
	}))
	defer srv.Close()

	mc := NewMailchimp("key-us21", "L1", time.Second).WithBaseURL(srv.URL)
	res, err := mc.Subscribe(context.Background(), Contact{Email: " Ana@Example.com ", Name: "Ana"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Subscribed (Mailchimp)", res.Message)
	assert.Equal(t, "Ana@Example.com", body.EmailAddress)
	assert.Equal(t, "subscribed", body.Status)
	assert.Equal(t, "Ana", body.MergeFields["FNAME"])
}

func TestMailchimp_UpsertsExistingMember(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"title":"Member Exists","detail":"ana@example.com is already a list member. Use PUT to insert or update list members."}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":"abc"}`)
	}))
	defer srv.Close()

	mc := NewMailchimp("key-us21", "L1", time.Second).WithBaseURL(srv.URL)
	res, err := mc.Subscribe(context.Background(), Contact{Email: "Ana@Example.com"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, paths, 2)
	assert.Equal(t, "PUT /lists/L1/members/"+SubscriberHash("ana@example.com"), paths[1])
}

func TestMailchimp_Rejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"title":"Invalid Resource","detail":"looks fake"}`)
	}))
	defer srv.Close()

	res, err := NewMailchimp("key-us21", "L1", time.Second).WithBaseURL(srv.URL).
		Subscribe(context.Background(), Contact{Email: "a@b.co"})
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusBadRequest, pe.StatusCode)
	assert.Equal(t, "looks fake", res.Message)
	assert.JSONEq(t, `{"title":"Invalid Resource","detail":"looks fake"}`, string(res.Payload))
}

func TestSubscriberHash(t *testing.T) {
	// md5("test@example.com")
	assert.Equal(t, "55502f40dc8b7c769880b10874abc9d0", SubscriberHash(" Test@Example.com "))
}

func TestBrevo_PostsContact(t *testing.T) {
	var got brevoContact
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contacts", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":42}`)
	}))
	defer srv.Close()

	b := NewBrevo("secret", srv.URL, []string{"3", "x", " 7"}, time.Second)
	res, err := b.Subscribe(context.Background(), Contact{Email: "a@b.co", Name: " Ana ", Message: "hi"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, got.UpdateEnabled)
	assert.Equal(t, []int{3, 7}, got.ListIDs)
	assert.Equal(t, map[string]string{"FIRSTNAME": "Ana", "MESSAGE": "hi"}, got.Attributes)
}

func TestBrevo_Failures(t *testing.T) {
	_, err := NewBrevo("", "", nil, time.Second).Subscribe(context.Background(), Contact{Email: "a@b.co"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":"invalid_parameter","message":"email is not valid"}`)
	}))
	defer srv.Close()

	res, err := NewBrevo("k", srv.URL, nil, time.Second).Subscribe(context.Background(), Contact{Email: "bad"})
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "email is not valid", res.Message)
}
