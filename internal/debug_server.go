package internal

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

//go:embed inspect.html
var templatesFS embed.FS

type InspectRow struct {
	Key    string
	Type   string
	Entity string
	Detail string
}

type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// StartDebugServer exposes a read-only HTML view over the raw store,
// browsable by key prefix (chat:, history:, roster:, user:). Debug
// tooling only, it is started when the log level is DEBUG.
func StartDebugServer(db *badger.DB, port int, endpoint string, statsProvider StatsProvider) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "chat:"
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapRow(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	go func() {
		_ = http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", port), mux)
	}()
}

func mapRow(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:    key,
		Type:   "RAW",
		Entity: "--------",
		Detail: "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	namespace, entity, found := strings.Cut(key, ":")
	if !found {
		return row
	}
	row.Type = strings.ToUpper(namespace)
	row.Entity = entity
	if len(row.Entity) > 12 {
		row.Entity = row.Entity[:12]
	}

	switch namespace {
	case "history":
		var messages []json.RawMessage
		if err := json.Unmarshal(val, &messages); err == nil {
			row.Detail = fmt.Sprintf("%d message(s)", len(messages))
		}
	case "roster":
		var identities []string
		if err := json.Unmarshal(val, &identities); err == nil {
			row.Detail = strings.Join(identities, ", ")
		}
	case "chat", "user":
		row.Detail = string(val)
	}
	return row
}
