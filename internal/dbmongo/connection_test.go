package dbmongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDial_InvalidURI(t *testing.T) {
	_, err := Dial(context.Background(), "not-a-mongo-uri", "parallel")
	assert.ErrorContains(t, err, "failed to connect MongoDB")
}

func TestDial_UnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err := Dial(ctx, "mongodb://127.0.0.1:1/?connect=direct", "parallel")
	assert.ErrorContains(t, err, "failed to ping MongoDB")
}
