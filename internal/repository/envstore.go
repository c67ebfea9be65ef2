package repository

import (
	"os"
	"strings"

	"ai-orchestrator/internal/domain"
)

// EnvConfigStore реализует read-only хранилище конфигурации поверх
// снимка переменных окружения. Снимок делается один раз при создании:
// изменение окружения на лету не влияет на уже работающий процесс,
// повторные чтения ключа всегда согласованы.
type EnvConfigStore struct {
	values map[string]string
}

// NewEnvConfigStore создает новый экземпляр EnvConfigStore.
func NewEnvConfigStore() domain.ConfigStore {
	values := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			values[kv[:i]] = kv[i+1:]
		}
	}
	return &EnvConfigStore{values: values}
}

func (s *EnvConfigStore) Get(key string) (string, bool) {
	value, ok := s.values[key]
	return value, ok
}
