// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/barto95100/EasyVote/auth"
	"github.com/barto95100/EasyVote/cliparse"
	"github.com/barto95100/EasyVote/fingerprint"
	"github.com/barto95100/EasyVote/models"
)

// defaultExpiryHours applies when a create request omits expiresIn.
const defaultExpiryHours = 24.0

// Service owns poll lifecycle and the vote ledger. All mutation of a
// single poll serializes on that poll's mutex; reads apply the lazy
// expiration check before trusting is_active.
type Service struct {
	db    *sql.DB
	cfg   cliparse.Config
	locks *lockTable
}

func NewService(db *sql.DB, cfg cliparse.Config) *Service {
	return &Service{db: db, cfg: cfg, locks: newLockTable()}
}

// List returns all polls, newest first, with per-option vote counts.
func (s *Service) List() ([]models.PollView, error) {
	rows, err := s.db.Query(`
		SELECT id, title, share_token, created_at, expires_at, is_active, stopped_at, delete_password_hash
		FROM poll
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	var polls []models.Poll
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate polls: %w", err)
	}

	views := []models.PollView{}
	for i := range polls {
		if err := s.applyExpiration(&polls[i]); err != nil {
			return nil, err
		}
		view, err := s.buildView(&polls[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, nil
}

// Create validates the request and stores a new active poll with its
// options. Returns the view including the public share token.
func (s *Service) Create(req models.CreatePollRequest) (models.PollView, error) {
	title := strings.TrimSpace(req.Title)
	password := strings.TrimSpace(req.DeletePassword)

	options := make([]string, 0, len(req.Options))
	for _, opt := range req.Options {
		if trimmed := strings.TrimSpace(opt); trimmed != "" {
			options = append(options, trimmed)
		}
	}

	if title == "" {
		return models.PollView{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(options) == 0 {
		return models.PollView{}, fmt.Errorf("%w: at least one option is required", ErrInvalidInput)
	}
	if password == "" {
		return models.PollView{}, fmt.Errorf("%w: deletePassword is required", ErrInvalidInput)
	}

	expiresIn := defaultExpiryHours
	if req.ExpiresInHours != nil {
		expiresIn = *req.ExpiresInHours
	}
	if expiresIn <= 0 {
		return models.PollView{}, fmt.Errorf("%w: expiry must be greater than 0", ErrInvalidInput)
	}

	pollID, err := auth.GenerateID(16)
	if err != nil {
		return models.PollView{}, fmt.Errorf("failed to generate poll ID: %w", err)
	}
	shareToken := auth.GenerateShareToken()

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return models.PollView{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(time.Duration(expiresIn * float64(time.Hour)))

	tx, err := s.db.Begin()
	if err != nil {
		return models.PollView{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO poll (id, title, share_token, created_at, expires_at, is_active, delete_password_hash)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6)
	`, pollID, title, shareToken, now, expiresAt, passwordHash)
	if err != nil {
		return models.PollView{}, fmt.Errorf("failed to insert poll: %w", err)
	}

	optionViews := make([]models.OptionView, 0, len(options))
	for i, label := range options {
		optionID, err := auth.GenerateID(12)
		if err != nil {
			return models.PollView{}, fmt.Errorf("failed to generate option ID: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO option (id, poll_id, label, position)
			VALUES ($1, $2, $3, $4)
		`, optionID, pollID, label, i+1)
		if err != nil {
			return models.PollView{}, fmt.Errorf("failed to insert option: %w", err)
		}

		optionViews = append(optionViews, models.OptionView{ID: optionID, Text: label, Votes: 0})
	}

	if err := tx.Commit(); err != nil {
		return models.PollView{}, fmt.Errorf("failed to commit poll: %w", err)
	}

	slog.Info("poll created",
		"poll_id", pollID,
		"title", title,
		"options", len(options),
		"expires", humanize.Time(expiresAt),
	)

	return models.PollView{
		ID:         pollID,
		Title:      title,
		ShareToken: shareToken,
		ExpiresAt:  expiresAt,
		Active:     true,
		Options:    optionViews,
		TotalVotes: 0,
	}, nil
}

// Get resolves a poll by its public share token, applying the
// expiration check so callers never see a stale active flag.
func (s *Service) Get(shareToken string) (models.PollView, error) {
	poll, err := s.getByToken(shareToken)
	if err != nil {
		return models.PollView{}, err
	}

	if err := s.applyExpiration(&poll); err != nil {
		return models.PollView{}, err
	}

	return s.buildView(&poll)
}

// SubmitVote records one ballot. The existing-fingerprint scan, the
// duplicate decision and the insert run under the poll's mutex inside
// one transaction, closing the check-then-insert race.
func (s *Service) SubmitVote(shareToken, optionID string, rawFingerprint any) error {
	if optionID == "" {
		return fmt.Errorf("%w: optionId is required", ErrInvalidInput)
	}

	pollID, err := s.resolveToken(shareToken)
	if err != nil {
		return err
	}

	lock := s.locks.forPoll(pollID)
	lock.Lock()
	defer lock.Unlock()

	poll, err := s.getByID(pollID)
	if err != nil {
		return err
	}
	if err := s.applyExpiration(&poll); err != nil {
		return err
	}
	if !poll.Active {
		return fmt.Errorf("%w: poll %s", ErrPollInactive, poll.ID)
	}

	var belongs bool
	err = s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM option WHERE id = $1 AND poll_id = $2)
	`, optionID, poll.ID).Scan(&belongs)
	if err != nil {
		return fmt.Errorf("failed to check option: %w", err)
	}
	if !belongs {
		return fmt.Errorf("%w: option %s", ErrOptionNotFound, optionID)
	}

	env, err := fingerprint.Normalize(rawFingerprint)
	if err != nil {
		slog.Warn("rejected malformed fingerprint", "poll_id", poll.ID, "error", err)
		return fmt.Errorf("%w: %v", ErrInvalidFingerprint, err)
	}

	voterHash, err := auth.DeriveVoterHash(poll.ID, env.Serialized(), s.cfg.SecretKey)
	if err != nil {
		slog.Warn("rejected low-entropy fingerprint", "poll_id", poll.ID, "error", err)
		return fmt.Errorf("%w: %v", ErrInvalidFingerprint, err)
	}

	components, err := env.Components.Serialize()
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := loadFingerprints(tx, poll.ID)
	if err != nil {
		return err
	}

	if fingerprint.IsDuplicate(env.Components, existing) {
		slog.Warn("duplicate vote detected",
			"poll_id", poll.ID,
			"share_token", shareToken,
			"prior_votes", len(existing),
		)
		return fmt.Errorf("%w: poll %s", ErrDuplicateVote, poll.ID)
	}

	voteID, err := auth.GenerateID(16)
	if err != nil {
		return fmt.Errorf("failed to generate vote ID: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO vote (id, poll_id, option_id, voter_hash, fingerprint_components, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, voteID, poll.ID, optionID, voterHash, components, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vote: %w", err)
	}

	slog.Info("vote recorded",
		"poll_id", poll.ID,
		"option_id", optionID,
		"voter", voterHash[:8],
	)

	return nil
}

// Stop deactivates an active poll after verifying the management
// password. One-way: a stopped poll never becomes active again.
func (s *Service) Stop(shareToken, password string) error {
	pollID, err := s.resolveToken(shareToken)
	if err != nil {
		return err
	}

	lock := s.locks.forPoll(pollID)
	lock.Lock()
	defer lock.Unlock()

	poll, err := s.getByID(pollID)
	if err != nil {
		return err
	}
	if err := s.applyExpiration(&poll); err != nil {
		return err
	}
	if !poll.Active {
		return fmt.Errorf("%w: poll %s", ErrAlreadyStopped, poll.ID)
	}

	if err := auth.CheckPassword(password, poll.DeletePasswordHash); err != nil {
		slog.Warn("stop rejected: wrong password", "poll_id", poll.ID)
		return fmt.Errorf("%w: stop poll %s", ErrForbidden, poll.ID)
	}

	_, err = s.db.Exec(`
		UPDATE poll SET is_active = FALSE, stopped_at = $1 WHERE id = $2 AND is_active
	`, time.Now().UTC(), poll.ID)
	if err != nil {
		return fmt.Errorf("failed to stop poll: %w", err)
	}

	slog.Info("poll stopped", "poll_id", poll.ID)
	return nil
}

// Delete removes a poll and cascades removal of its options and votes
// after verifying the management password. Allowed from any state.
func (s *Service) Delete(shareToken, password string) error {
	pollID, err := s.resolveToken(shareToken)
	if err != nil {
		return err
	}

	lock := s.locks.forPoll(pollID)
	lock.Lock()
	defer lock.Unlock()

	poll, err := s.getByID(pollID)
	if err != nil {
		return err
	}

	if err := auth.CheckPassword(password, poll.DeletePasswordHash); err != nil {
		slog.Warn("delete rejected: wrong password", "poll_id", poll.ID)
		return fmt.Errorf("%w: delete poll %s", ErrForbidden, poll.ID)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Explicit cascade, independent of driver foreign key settings.
	if _, err := tx.Exec(`DELETE FROM vote WHERE poll_id = $1`, poll.ID); err != nil {
		return fmt.Errorf("failed to delete votes: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM option WHERE poll_id = $1`, poll.ID); err != nil {
		return fmt.Errorf("failed to delete options: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM poll WHERE id = $1`, poll.ID); err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	s.locks.drop(poll.ID)
	slog.Info("poll deleted", "poll_id", poll.ID)
	return nil
}

// CleanupExpired deactivates every poll whose expiration has passed.
// Run once at startup; afterwards the lazy per-read check takes over.
func (s *Service) CleanupExpired() error {
	res, err := s.db.Exec(`
		UPDATE poll SET is_active = FALSE WHERE is_active AND expires_at <= $1
	`, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to clean up expired polls: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		slog.Info("expired polls cleaned up", "count", n)
	}
	return nil
}

// applyExpiration flips is_active off once the expiration instant has
// passed. Called on every read path before the flag is trusted.
func (s *Service) applyExpiration(poll *models.Poll) error {
	if !poll.Active || time.Now().UTC().Before(poll.ExpiresAt) {
		return nil
	}

	_, err := s.db.Exec(`
		UPDATE poll SET is_active = FALSE WHERE id = $1 AND is_active
	`, poll.ID)
	if err != nil {
		return fmt.Errorf("failed to expire poll: %w", err)
	}

	poll.Active = false
	slog.Info("poll expired", "poll_id", poll.ID, "expired", humanize.Time(poll.ExpiresAt))
	return nil
}

// loadFingerprints returns the parsed component mappings of every vote
// recorded on a poll. A stored fingerprint that no longer parses is
// skipped and logged; one corrupt row must never block the poll.
func loadFingerprints(tx *sql.Tx, pollID string) ([]fingerprint.Components, error) {
	rows, err := tx.Query(`
		SELECT id, fingerprint_components FROM vote WHERE poll_id = $1
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing votes: %w", err)
	}
	defer rows.Close()

	var existing []fingerprint.Components
	for rows.Next() {
		var voteID, serialized string
		if err := rows.Scan(&voteID, &serialized); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}

		components, err := fingerprint.ParseComponents(serialized)
		if err != nil {
			slog.Error("skipping corrupt stored fingerprint", "poll_id", pollID, "vote_id", voteID, "error", err)
			continue
		}
		existing = append(existing, components)
	}

	return existing, rows.Err()
}

func (s *Service) resolveToken(shareToken string) (string, error) {
	var pollID string
	err := s.db.QueryRow(`
		SELECT id FROM poll WHERE share_token = $1
	`, shareToken).Scan(&pollID)

	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %s", ErrPollNotFound, shareToken)
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve share token: %w", err)
	}
	return pollID, nil
}

func (s *Service) getByToken(shareToken string) (models.Poll, error) {
	row := s.db.QueryRow(`
		SELECT id, title, share_token, created_at, expires_at, is_active, stopped_at, delete_password_hash
		FROM poll
		WHERE share_token = $1
	`, shareToken)

	poll, err := scanPoll(row)
	if err == sql.ErrNoRows {
		return models.Poll{}, fmt.Errorf("%w: %s", ErrPollNotFound, shareToken)
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}
	return poll, nil
}

func (s *Service) getByID(pollID string) (models.Poll, error) {
	row := s.db.QueryRow(`
		SELECT id, title, share_token, created_at, expires_at, is_active, stopped_at, delete_password_hash
		FROM poll
		WHERE id = $1
	`, pollID)

	poll, err := scanPoll(row)
	if err == sql.ErrNoRows {
		return models.Poll{}, fmt.Errorf("%w: %s", ErrPollNotFound, pollID)
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}
	return poll, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoll(row rowScanner) (models.Poll, error) {
	var poll models.Poll
	var stoppedAt sql.NullTime

	err := row.Scan(
		&poll.ID, &poll.Title, &poll.ShareToken, &poll.CreatedAt,
		&poll.ExpiresAt, &poll.Active, &stoppedAt, &poll.DeletePasswordHash,
	)
	if err != nil {
		return models.Poll{}, err
	}

	if stoppedAt.Valid {
		t := stoppedAt.Time
		poll.StoppedAt = &t
	}
	return poll, nil
}

// buildView assembles the external representation with per-option vote
// counts, options in creation order.
func (s *Service) buildView(poll *models.Poll) (models.PollView, error) {
	rows, err := s.db.Query(`
		SELECT o.id, o.label, COUNT(v.id)
		FROM option o
		LEFT JOIN vote v ON v.option_id = o.id
		WHERE o.poll_id = $1
		GROUP BY o.id, o.label, o.position
		ORDER BY o.position
	`, poll.ID)
	if err != nil {
		return models.PollView{}, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	options := []models.OptionView{}
	total := 0
	for rows.Next() {
		var opt models.OptionView
		if err := rows.Scan(&opt.ID, &opt.Text, &opt.Votes); err != nil {
			return models.PollView{}, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
		total += opt.Votes
	}
	if err := rows.Err(); err != nil {
		return models.PollView{}, fmt.Errorf("failed to iterate options: %w", err)
	}

	return models.PollView{
		ID:         poll.ID,
		Title:      poll.Title,
		ShareToken: poll.ShareToken,
		ExpiresAt:  poll.ExpiresAt,
		Active:     poll.Active,
		Options:    options,
		TotalVotes: total,
	}, nil
}
