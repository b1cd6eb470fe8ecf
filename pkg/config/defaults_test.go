package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvFirst(t *testing.T) {
	t.Setenv("WORDPRESS_API_URL", "")
	t.Setenv("NEXT_PUBLIC_WORDPRESS_API_URL", "https://cms.example.com/graphql")

	got := getEnvFirst("https://default/graphql", "WORDPRESS_API_URL", "NEXT_PUBLIC_WORDPRESS_API_URL")
	assert.Equal(t, "https://cms.example.com/graphql", got)

	t.Setenv("NEXT_PUBLIC_WORDPRESS_API_URL", "")
	assert.Equal(t, "https://default/graphql", getEnvFirst("https://default/graphql", "WORDPRESS_API_URL", "NEXT_PUBLIC_WORDPRESS_API_URL"))
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("TEST_LIST", " 3, ,7 ")
	assert.Equal(t, []string{"3", "7"}, getEnvList("TEST_LIST", nil))

	t.Setenv("TEST_LIST", " , ")
	assert.Equal(t, []string{"a"}, getEnvList("TEST_LIST", []string{"a"}))
}

func TestTypedGetters(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "forty")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DURATION", "250ms")

	assert.Equal(t, 42, getEnvInt("TEST_INT", 1))
	assert.Equal(t, 1, getEnvInt("TEST_BAD_INT", 1))
	assert.True(t, getEnvBool("TEST_BOOL", false))
	assert.Equal(t, 250*time.Millisecond, getEnvDuration("TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, getEnvDuration("TEST_MISSING_DURATION", time.Second))
}
