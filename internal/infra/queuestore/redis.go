package queuestore

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"seat-queue/internal/domain/queue"
	"seat-queue/internal/infra"
	"seat-queue/internal/pkg/clock"
	"seat-queue/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Scripts run atomically on the server, which gives every write the same
// one-writer-at-a-time guarantee as the SQL backends without WATCH retries.
// All keys share the prefix hash tag so a cluster keeps them in one slot.
var (
	// KEYS: seq, index. ARGV: entry key prefix, id, name, status, created_at.
	createScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
redis.call('HSET', ARGV[1] .. n,
	'id', ARGV[2], 'queue_number', n, 'name', ARGV[3], 'status', ARGV[4], 'created_at', ARGV[5])
redis.call('ZADD', KEYS[2], n, n)
return n
`)

	// KEYS: entry, seats. ARGV: to, at, gated, capacity, stamp field, allowed from statuses...
	setStatusScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return redis.error_reply('NOT_FOUND')
end
local current = redis.call('HGET', KEYS[1], 'status')
local allowed = false
for i = 6, #ARGV do
	if ARGV[i] == current then allowed = true end
end
if not allowed then
	return redis.error_reply('INVALID_TRANSITION ' .. current)
end
local taken = redis.call('SCARD', KEYS[2])
if ARGV[3] == '1' and taken >= tonumber(ARGV[4]) then
	return redis.error_reply('CAPACITY_EXCEEDED ' .. taken)
end
local n = redis.call('HGET', KEYS[1], 'queue_number')
redis.call('HSET', KEYS[1], 'status', ARGV[1])
if ARGV[5] ~= '' then
	redis.call('HSET', KEYS[1], ARGV[5], ARGV[2])
end
if ARGV[1] == 'in_progress' then
	redis.call('SADD', KEYS[2], n)
else
	redis.call('SREM', KEYS[2], n)
end
return redis.call('HGETALL', KEYS[1])
`)

	// KEYS: index. ARGV: entry key prefix.
	listScript = redis.NewScript(`
local out = {}
for _, n in ipairs(redis.call('ZRANGE', KEYS[1], 0, -1)) do
	table.insert(out, redis.call('HGETALL', ARGV[1] .. n))
end
return out
`)
)

const (
	replyNotFound          = "NOT_FOUND"
	replyInvalidTransition = "INVALID_TRANSITION"
	replyCapacityExceeded  = "CAPACITY_EXCEEDED"
)

type RedisStore struct {
	client   redis.UniversalClient
	prefix   string
	clock    clock.Clock
	capacity int
	logger   *slog.Logger
	newID    func() uuid.UUID
}

var _ queue.Store = (*RedisStore)(nil)

func NewRedisStore(client redis.UniversalClient, prefix string, clk clock.Clock, capacity int, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client:   client,
		prefix:   prefix,
		clock:    clk,
		capacity: capacity,
		logger:   logger,
		newID:    uuid.New,
	}
}

func (s *RedisStore) seqKey() string         { return s.prefix + ":seq" }
func (s *RedisStore) indexKey() string       { return s.prefix + ":entries" }
func (s *RedisStore) seatsKey() string       { return s.prefix + ":in_progress" }
func (s *RedisStore) entryKeyPrefix() string { return s.prefix + ":entry:" }

func (s *RedisStore) entryKey(queueNumber int64) string {
	return s.entryKeyPrefix() + strconv.FormatInt(queueNumber, 10)
}

func (s *RedisStore) Create(ctx context.Context, name queue.Name) (*queue.Entry, error) {
	if name.IsZero() {
		return nil, queue.ErrEmptyName
	}

	id := s.newID()
	createdAt := s.clock.Now()
	n, err := createScript.Run(ctx, s.client,
		[]string{s.seqKey(), s.indexKey()},
		s.entryKeyPrefix(), id.String(), name.String(), string(queue.StatusWaiting), formatTime(createdAt),
	).Int64()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to create reservation", err)
	}

	return queue.ReconstructEntry(id, n, name.String(), queue.StatusWaiting, createdAt, nil, nil), nil
}

func (s *RedisStore) GetByQueueNumber(ctx context.Context, queueNumber int64) (*queue.Entry, error) {
	fields, err := s.client.HGetAll(ctx, s.entryKey(queueNumber)).Result()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to get reservation", err)
	}
	if len(fields) == 0 {
		return nil, errs.Wrapf(queue.ErrNotFound, "queue number %d", queueNumber)
	}

	entry, err := entryFromHash(fields)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to decode reservation", err)
	}
	return entry, nil
}

func (s *RedisStore) ListAll(ctx context.Context) ([]*queue.Entry, error) {
	raw, err := listScript.Run(ctx, s.client, []string{s.indexKey()}, s.entryKeyPrefix()).Slice()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to list reservations", err)
	}

	entries := make([]*queue.Entry, 0, len(raw))
	for _, item := range raw {
		pairs, ok := item.([]any)
		if !ok {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to decode reservation", fmt.Errorf("unexpected reply %T", item))
		}
		entry, err := entryFromPairs(pairs)
		if err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to decode reservation", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *RedisStore) SetStatus(ctx context.Context, queueNumber int64, status queue.Status) (*queue.Entry, error) {
	if !status.IsValid() {
		return nil, errs.Wrapf(queue.ErrUnknownStatus, "%q", status)
	}

	from, gated := queue.TransitionSources(status)
	stampField := ""
	switch {
	case queue.StampsStarted(status):
		stampField = "started_at"
	case queue.StampsCompleted(status):
		stampField = "completed_at"
	}
	gatedArg := "0"
	if gated {
		gatedArg = "1"
	}

	args := []any{string(status), formatTime(s.clock.Now()), gatedArg, strconv.Itoa(s.capacity), stampField}
	for _, f := range from {
		args = append(args, string(f))
	}

	raw, err := setStatusScript.Run(ctx, s.client, []string{s.entryKey(queueNumber), s.seatsKey()}, args...).Slice()
	if err != nil {
		return nil, s.mapScriptError(queueNumber, status, err)
	}

	entry, err := entryFromPairs(raw)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to decode reservation", err)
	}
	return entry, nil
}

// mapScriptError turns a rejection reply back into the domain error the
// transition table produces for the same state. Anything else is an infra failure.
func (s *RedisStore) mapScriptError(queueNumber int64, to queue.Status, err error) error {
	code, detail, _ := strings.Cut(err.Error(), " ")
	switch code {
	case replyNotFound:
		return errs.Wrapf(queue.ErrNotFound, "queue number %d", queueNumber)
	case replyInvalidTransition:
		return rejected(queue.CheckTransition(queueNumber, queue.Status(detail), to, 0, s.capacity), queueNumber, to)
	case replyCapacityExceeded:
		taken, convErr := strconv.Atoi(detail)
		if convErr != nil {
			taken = s.capacity
		}
		return rejected(queue.CheckTransition(queueNumber, queue.StatusWaiting, to, max(taken, s.capacity), s.capacity), queueNumber, to)
	default:
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to update reservation", err)
	}
}

// rejected never lets a server-side rejection turn into success, even if the
// reply carried a status the local table would accept.
func rejected(err error, queueNumber int64, to queue.Status) error {
	if err != nil {
		return err
	}
	return errs.Wrapf(queue.ErrInvalidTransition, "#%d: -> %s", queueNumber, to)
}

func entryFromPairs(pairs []any) (*queue.Entry, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("odd number of hash fields: %d", len(pairs))
	}
	fields := make(map[string]string, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		k, kok := pairs[i].(string)
		v, vok := pairs[i+1].(string)
		if !kok || !vok {
			return nil, fmt.Errorf("unexpected hash field types %T/%T", pairs[i], pairs[i+1])
		}
		fields[k] = v
	}
	return entryFromHash(fields)
}

func entryFromHash(fields map[string]string) (*queue.Entry, error) {
	id, err := uuid.Parse(fields["id"])
	if err != nil {
		return nil, fmt.Errorf("parse id: %w", err)
	}
	queueNumber, err := strconv.ParseInt(fields["queue_number"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse queue_number: %w", err)
	}
	createdAt, err := parseTime(fields["created_at"])
	if err != nil {
		return nil, err
	}
	startedAt, err := parseOptionalField(fields, "started_at")
	if err != nil {
		return nil, err
	}
	completedAt, err := parseOptionalField(fields, "completed_at")
	if err != nil {
		return nil, err
	}

	return queue.ReconstructEntry(id, queueNumber, fields["name"], queue.Status(fields["status"]), createdAt, startedAt, completedAt), nil
}

func parseOptionalField(fields map[string]string, key string) (*time.Time, error) {
	raw := fields[key]
	if raw == "" {
		return nil, nil
	}
	t, err := parseTime(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
