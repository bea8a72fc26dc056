package console

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/app-aegis/aegis-admin/pkg/restapi"
)

func TestDefaultTablesCoverKnownCollections(t *testing.T) {
	defs := DefaultTables()
	assert.Len(t, defs, 13)

	reg := NewTableRegistry()
	def, ok := reg.Lookup("Parents")
	require.True(t, ok)
	assert.Equal(t, "parents", def.Endpoint)
	_, ok = reg.Lookup("nope")
	assert.False(t, ok)
}

func TestTableRegistryRegisterReplacesByName(t *testing.T) {
	reg := NewTableRegistry()
	before := len(reg.Tables())

	require.NoError(t, reg.Register(TableDefinition{Name: "Parents", Endpoint: "parents-v2"}))
	assert.Len(t, reg.Tables(), before)
	def, _ := reg.Lookup("Parents")
	assert.Equal(t, "parents-v2", def.Endpoint)

	require.NoError(t, reg.Register(TableDefinition{Name: "Sessions", Endpoint: "sessions"}))
	tables := reg.Tables()
	assert.Len(t, tables, before+1)
	assert.Equal(t, "Sessions", tables[len(tables)-1].Name)
}

func TestTableRegistryRejectsIncompleteDefinition(t *testing.T) {
	reg := NewTableRegistry()
	assert.Error(t, reg.Register(TableDefinition{Name: "X"}))
	assert.Error(t, reg.Register(TableDefinition{Endpoint: "x"}))
}

func TestTableBrowserColumnsFollowDocumentOrder(t *testing.T) {
	mock := restapi.NewMockClient()
	mock.Lists["devices"] = restapi.ListResult{
		Enveloped:    true,
		TotalResults: 2,
		Items: []json.RawMessage{
			json.RawMessage(`{"id":"d1","deviceName":"Pixel","isOnline":true,"batteryLevel":87.5,"meta":{"os":"android"},"lastSeen":null}`),
			json.RawMessage(`{"id":"d2","deviceName":"iPhone","isOnline":false,"batteryLevel":12,"meta":null,"lastSeen":"2024-06-01"}`),
		},
	}
	browser := NewTableBrowser(mock, nil)

	view, err := browser.Select(context.Background(), "Devices")
	require.NoError(t, err)
	assert.Equal(t, "Devices", view.Name)

	keys := make([]string, len(view.Columns))
	titles := make([]string, len(view.Columns))
	for i, col := range view.Columns {
		keys[i] = col.Key
		titles[i] = col.Title
	}
	assert.Equal(t, []string{"id", "deviceName", "isOnline", "batteryLevel", "meta", "lastSeen"}, keys)
	assert.Equal(t, []string{"Id", "Device Name", "Is Online", "Battery Level", "Meta", "Last Seen"}, titles)

	require.Len(t, view.Rows, 2)
	assert.Equal(t, []string{"d1", "Pixel", "true", "87.5", `{"os":"android"}`, "null"}, view.Rows[0])
	assert.Equal(t, []string{"d2", "iPhone", "false", "12", "null", "2024-06-01"}, view.Rows[1])
}

func TestTableBrowserEmptyTableHasNoColumns(t *testing.T) {
	mock := restapi.NewMockClient()
	mock.Lists["admins"] = restapi.ListResult{Enveloped: true}
	browser := NewTableBrowser(mock, nil)

	view, err := browser.Select(context.Background(), "Admins")
	require.NoError(t, err)
	assert.Empty(t, view.Columns)
	assert.Empty(t, view.Rows)
}

func TestTableBrowserUnknownTable(t *testing.T) {
	browser := NewTableBrowser(restapi.NewMockClient(), nil)
	_, err := browser.Select(context.Background(), "Secrets")
	assert.Error(t, err)
}

func TestTableBrowserFetchError(t *testing.T) {
	mock := restapi.NewMockClient()
	mock.ListErr["logs"] = &restapi.StatusError{Code: 502, Body: "bad gateway"}
	browser := NewTableBrowser(mock, nil)

	_, err := browser.Select(context.Background(), "Logs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load table Logs")
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "null", formatCell(nil))
	assert.Equal(t, "plain", formatCell("plain"))
	assert.Equal(t, "true", formatCell(true))
	assert.Equal(t, "3", formatCell(float64(3)))
	assert.Equal(t, "3.25", formatCell(3.25))
	assert.Equal(t, `["a","b"]`, formatCell([]any{"a", "b"}))
}
