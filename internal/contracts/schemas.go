package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed schemas
var schemasFS embed.FS

// EventVersion - текущая версия всех событий уведомлений
const EventVersion = "1.0.0"

// SyncStateKey - схема сохраненного состояния синхронизации карточек
const SyncStateKey = "ListingSyncState/1.0.0"

// baseURL делает пути ресурсов абсолютными, чтобы компилятор не ходил на диск
const baseURL = "https://farm2fork.local/schemas/"

var (
	loadOnce        sync.Once
	compiledSchemas map[string]*jsonschema.Schema
	loadErr         error
)

func load() (map[string]*jsonschema.Schema, error) {
	loadOnce.Do(func() {
		compiledSchemas, loadErr = compileAll(schemasFS)
	})
	return compiledSchemas, loadErr
}

func compileAll(fsys fs.FS) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	// Сначала добавляем все ресурсы, чтобы работали $ref между схемами
	err := fs.WalkDir(fsys, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		rel := strings.TrimPrefix(path, "schemas/")
		if err := compiler.AddResource(baseURL+rel, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking schema resources: %w", err)
	}

	out := make(map[string]*jsonschema.Schema, len(paths))
	for _, rel := range paths {
		key := generateKeyFromPath(rel)
		if key == "" {
			return nil, fmt.Errorf("unexpected schema path layout: %s", rel)
		}
		schema, err := compiler.Compile(baseURL + rel)
		if err != nil {
			return nil, fmt.Errorf("could not compile schema %s: %w", rel, err)
		}
		out[key] = schema
	}
	return out, nil
}

// generateKeyFromPath: "events/listing-approved/v1.json" -> "ListingApprovedEvent/1.0.0",
// "state/listing-sync/v1.json" -> "ListingSyncState/1.0.0".
func generateKeyFromPath(path string) string {
	parts := strings.Split(strings.TrimSuffix(path, ".json"), "/")
	if len(parts) != 3 || !strings.HasPrefix(parts[2], "v") {
		return ""
	}

	var suffix string
	switch parts[0] {
	case "events":
		suffix = "Event"
	case "state":
		suffix = "State"
	default:
		return ""
	}

	version := strings.TrimPrefix(parts[2], "v") + ".0.0"
	return fmt.Sprintf("%s%s/%s", titleJoin(parts[1]), suffix, version)
}

func titleJoin(kebab string) string {
	caser := cases.Title(language.English)
	var b strings.Builder
	for _, p := range strings.Split(kebab, "-") {
		b.WriteString(caser.String(p))
	}
	return b.String()
}

// EventTypeName - имя события в заголовке сообщения, например ListingApprovedEvent
func EventTypeName(t domain.NotificationType) string {
	return titleJoin(string(t)) + "Event"
}

// ValidateEvent проверяет тело сообщения по схеме, найденной по заголовкам события
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	return Validate(fmt.Sprintf("%s/%s", eventType, eventVersion), body)
}

// Validate проверяет JSON-документ по зарегистрированной схеме
func Validate(key string, body []byte) error {
	registry, err := load()
	if err != nil {
		return err
	}
	schema, ok := registry[key]
	if !ok {
		return fmt.Errorf("schema '%s' not found", key)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("document is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}

// Keys возвращает зарегистрированные ключи схем
func Keys() ([]string, error) {
	registry, err := load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	return keys, nil
}
