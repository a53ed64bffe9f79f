package statsview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURL(t *testing.T) {
	assert.Equal(t, "http://localhost:12600/debug/statsview", URL(DefaultAddress))
	assert.Equal(t, "http://127.0.0.1:9000/debug/statsview", URL("127.0.0.1:9000"))
}
