package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("ops@fleetops.example.com"))
	assert.True(t, IsValidEmail("first.last+tag@utility.org"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("spaces in@address.com"))
	assert.False(t, IsValidEmail("missing@tld"))
	assert.False(t, IsValidEmail(""))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("secret123!"))
	assert.True(t, IsValidPassword("A1b2$c3d"))
	assert.False(t, IsValidPassword("short1!"))
	assert.False(t, IsValidPassword("nospecial123"))
	assert.False(t, IsValidPassword("nodigits!!"))
	assert.False(t, IsValidPassword("12345678!"))
}

func TestIsValidFullname(t *testing.T) {
	assert.True(t, IsValidFullname("Dana O'Neil"))
	assert.True(t, IsValidFullname("Jean-Luc Moreau"))
	assert.False(t, IsValidFullname(""))
	assert.False(t, IsValidFullname("admin;drop"))
}
