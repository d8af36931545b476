// Package visitors records privacy-conscious page visits: client IPs are
// stored only as salted, truncated hashes and Do Not Track is honoured.
package visitors

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/folio/internal/store"
)

// Visit is one recorded page view.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// PathStat counts visits to one path.
type PathStat struct {
	Path   string `json:"path"`
	Visits int64  `json:"visits"`
}

// Stats aggregates recorded visits.
type Stats struct {
	TotalVisitors    int64      `json:"total_visitors"`
	UniqueVisitors   int64      `json:"unique_visitors"`
	VisitorsToday    int64      `json:"visitors_today"`
	VisitorsThisWeek int64      `json:"visitors_this_week"`
	TopPaths         []PathStat `json:"top_paths"`
	RecentVisitors   []Visit    `json:"recent_visitors"`
}

// Paths under these prefixes are never tracked.
var skipPrefixes = []string{"/static/", "/images/", "/favicon", "/api/", "/health/"}

// Tracker records visits into the visitors table.
type Tracker struct {
	db        *store.DB
	salt      string
	retention time.Duration
	log       *slog.Logger
	now       func() time.Time
	wg        sync.WaitGroup
}

// NewTracker creates a tracker. An empty salt is replaced with a random one,
// which makes hashes stable only for the life of the process.
func NewTracker(db *store.DB, salt string, retention time.Duration, log *slog.Logger) *Tracker {
	if salt == "" {
		salt = randomHex(32)
	}
	return &Tracker{
		db:        db,
		salt:      salt,
		retention: retention,
		log:       log,
		now:       time.Now,
	}
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("visitors: generate salt: %v", err))
	}
	return hex.EncodeToString(b)
}

// HashIP returns a salted hash of ip, consistent per ip and salt.
func (t *Tracker) HashIP(ip string) string {
	h := sha256.New()
	h.Write([]byte(ip + t.salt))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Middleware records page views in the background. Static assets, API calls
// and requests carrying "DNT: 1" are skipped.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || skipped(path) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			if err := t.Record(context.Background(), ip, ua, path); err != nil {
				t.log.Error("Error recording visitor", slog.String("error", err.Error()))
			}
		}()
		c.Next()
	}
}

func skipped(path string) bool {
	for _, p := range skipPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Wait blocks until background recordings finish.
func (t *Tracker) Wait() { t.wg.Wait() }

// Record stores one visit.
func (t *Tracker) Record(ctx context.Context, ip, userAgent, path string) error {
	_, err := t.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)`,
		t.HashIP(ip), userAgent, path, store.FormatTime(t.now()))
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// Cleanup deletes visits older than the retention period and returns how
// many were removed. A zero retention keeps everything.
func (t *Tracker) Cleanup(ctx context.Context) (int64, error) {
	if t.retention <= 0 {
		return 0, nil
	}
	cutoff := store.FormatTime(t.now().Add(-t.retention))
	res, err := t.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup visitors: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		t.log.Info("Privacy cleanup: removed old visitor records", slog.Int64("removed", n))
	}
	return n, nil
}

// Stats aggregates visits.
func (t *Tracker) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	now := t.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dest  *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{store.FormatTime(today)}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{store.FormatTime(now.AddDate(0, 0, -7))}},
	}
	for _, q := range counts {
		if err := t.db.QueryRowContext(ctx, q.query, q.args...).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("visitor stats: %w", err)
		}
	}

	rows, err := t.db.QueryContext(ctx, `
		SELECT path, COUNT(*) AS visits
		FROM visitors
		GROUP BY path
		ORDER BY visits DESC, path
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("top paths: %w", err)
	}
	for rows.Next() {
		var p PathStat
		if err := rows.Scan(&p.Path, &p.Visits); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan path stat: %w", err)
		}
		stats.TopPaths = append(stats.TopPaths, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top paths: %w", err)
	}

	if stats.RecentVisitors, err = t.Recent(ctx, 50); err != nil {
		return nil, err
	}
	return stats, nil
}

// Recent returns the latest visits, newest first.
func (t *Tracker) Recent(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT id, hashed_ip, user_agent, path, timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent visitors: %w", err)
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var (
			v  Visit
			ts string
		)
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		if v.Timestamp, err = store.ParseTime(ts); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
