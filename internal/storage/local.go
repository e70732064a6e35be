package storage

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

type Category string

const (
	CategoryMedia Category = "media"
	CategoryQuiz  Category = "quiz"
)

// DefaultNamespace prefixes every key written by the runtime.
const DefaultNamespace = "mindengage"

// Key builds "<namespace>:<category>:<id>".
func Key(namespace string, cat Category, id string) string {
	return strings.Join([]string{namespace, string(cat), id}, ":")
}

// Local is the best-effort namespaced adapter over a KV backend. It never
// returns an error: failures are logged and reported as a miss or false.
type Local struct {
	ns  string
	kv  KV
	log *zap.Logger
}

func NewLocal(kv KV, namespace string, log *zap.Logger) *Local {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Local{ns: namespace, kv: kv, log: log.With(zap.String("component", "storage"))}
}

func (l *Local) Namespace() string { return l.ns }

func (l *Local) Load(ctx context.Context, cat Category, id string) (string, bool) {
	key := Key(l.ns, cat, id)
	v, ok, err := l.kv.Load(ctx, key)
	if err != nil {
		l.log.Warn("local load failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return v, ok
}

func (l *Local) Save(ctx context.Context, cat Category, id, value string) bool {
	key := Key(l.ns, cat, id)
	if err := l.kv.Save(ctx, key, value); err != nil {
		l.log.Warn("local save failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// LoadJSON decodes a stored value into dst. A miss or a corrupt value returns false.
func (l *Local) LoadJSON(ctx context.Context, cat Category, id string, dst any) bool {
	raw, ok := l.Load(ctx, cat, id)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		l.log.Warn("local value unreadable", zap.String("key", Key(l.ns, cat, id)), zap.Error(err))
		return false
	}
	return true
}

func (l *Local) SaveJSON(ctx context.Context, cat Category, id string, v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		l.log.Warn("local value not serializable", zap.String("key", Key(l.ns, cat, id)), zap.Error(err))
		return false
	}
	return l.Save(ctx, cat, id, string(b))
}
