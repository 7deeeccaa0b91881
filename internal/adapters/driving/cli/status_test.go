package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
)

func TestStatusCmd_BeforeIndexing(t *testing.T) {
	setupTestApp(t)

	out, err := executeCommand(t, "", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Documents:")
	assert.Contains(t, out, "Конституция Республики Беларусь (constitution)")
	assert.Contains(t, out, "Trigger: konstitution_search")
	assert.Contains(t, out, "State:   uninitialized")
}

func TestStatusCmd_JSONAfterIndexing(t *testing.T) {
	setupTestApp(t)
	_, err := executeCommand(t, "", "index", "constitution")
	require.NoError(t, err)

	out, err := executeCommand(t, "", "status", "--json")
	require.NoError(t, err)

	var rows []statusJSONRow
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &rows))
	require.Len(t, rows, len(domain.Catalog()))

	byID := make(map[string]statusJSONRow)
	for _, r := range rows {
		byID[r.Document] = r
	}
	assert.Equal(t, "ready", byID[domain.DocumentConstitution].State)
	assert.Positive(t, byID[domain.DocumentConstitution].Chunks)
	assert.NotNil(t, byID[domain.DocumentConstitution].ReadyAt)
	assert.Equal(t, "uninitialized", byID[domain.DocumentChildRights].State)
	assert.Nil(t, byID[domain.DocumentChildRights].ReadyAt)
}
