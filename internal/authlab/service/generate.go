package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/authlab/internal/authlab/domain"
	"github.com/aussiebroadwan/authlab/internal/authlab/schema"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
	"github.com/aussiebroadwan/authlab/pkg/cryptox"
	"github.com/aussiebroadwan/authlab/pkg/idx"
	"github.com/aussiebroadwan/authlab/pkg/jwtx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var (
	ErrInvalidConfig = errors.New("generate: invalid config")
	ErrNotEmpty      = errors.New("generate: dataset already has users")
)

// Role mix of generated accounts, cumulative.
const (
	shareAdmin   = 0.05
	shareAuditor = 0.05
	shareService = 0.10
)

// MFA enrolment rate per role. Admins are always enrolled.
var mfaRate = map[domain.Role]float64{
	domain.RoleAdmin:   1.0,
	domain.RoleAuditor: 0.7,
	domain.RoleService: 0.1,
	domain.RoleUser:    0.3,
}

var totpOpts = totp.ValidateOpts{
	Period:    30,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// GenerateConfig describes one synthetic snapshot. The same config always
// produces byte-identical rows.
type GenerateConfig struct {
	Seed         uint64
	Users        int
	Start, End   time.Time // observation window
	ATOScenarios int
	Noise        float64 // probability that a row gets one corrupted cell
	Orphans      bool    // allow noise to break foreign keys; needs foreign_keys off
	Argon2       cryptox.Argon2Params
	Issuer       string
	SessionTTL   time.Duration
}

func (c GenerateConfig) validate() error {
	switch {
	case c.Users <= 0:
		return fmt.Errorf("%w: users must be positive", ErrInvalidConfig)
	case !c.End.After(c.Start.Add(24 * time.Hour)):
		return fmt.Errorf("%w: window must span at least a day", ErrInvalidConfig)
	case c.ATOScenarios < 0 || c.ATOScenarios > c.Users:
		return fmt.Errorf("%w: ato scenarios must be between 0 and users", ErrInvalidConfig)
	case c.Noise < 0 || c.Noise > 1:
		return fmt.Errorf("%w: noise must be within [0,1]", ErrInvalidConfig)
	}
	return nil
}

// Summary counts what a generation run wrote.
type Summary struct {
	Users          int    `json:"users"`
	Sessions       int    `json:"sessions"`
	APIKeys        int    `json:"api_keys"`
	PasswordResets int    `json:"password_resets"`
	AuditEvents    int    `json:"audit_events"`
	ATOVictims     int    `json:"ato_victims"`
	NoisyCells     int    `json:"noisy_cells"`
	KeyID          string `json:"kid"`
}

// GeneratorService writes synthetic datasets into a store.
type GeneratorService struct {
	Store  store.Store
	Logger *slog.Logger
}

// Generate builds the dataset in memory and writes it in one transaction.
// It refuses to write into a store that already holds users.
func (s *GeneratorService) Generate(ctx context.Context, cfg GenerateConfig) (Summary, error) {
	if cfg.Argon2 == (cryptox.Argon2Params{}) {
		cfg.Argon2 = cryptox.DefaultArgon2
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = jwtx.DefaultSessionTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "authlab"
	}
	cfg.Start, cfg.End = cfg.Start.UTC().Truncate(time.Second), cfg.End.UTC().Truncate(time.Second)
	if err := cfg.validate(); err != nil {
		return Summary{}, err
	}

	n, err := s.Store.Users().Count(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return Summary{}, ErrNotEmpty
	}

	_, signer, err := DatasetSigningKey(cfg.Seed)
	if err != nil {
		return Summary{}, err
	}

	b := newBuilder(cfg, signer)
	if err := b.build(); err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Users:          len(b.users),
		Sessions:       len(b.sessions),
		APIKeys:        len(b.keys),
		PasswordResets: len(b.resets),
		AuditEvents:    len(b.events),
		ATOVictims:     len(b.victims),
		KeyID:          signer.KID(),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := b.write(ctx, tx); err != nil {
			return err
		}
		noisy, err := b.corrupt(ctx, tx.Tables())
		if err != nil {
			return fmt.Errorf("apply noise: %w", err)
		}
		sum.NoisyCells = noisy
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	s.Logger.Info("dataset generated",
		"seed", cfg.Seed,
		"users", sum.Users,
		"sessions", sum.Sessions,
		"api_keys", sum.APIKeys,
		"password_resets", sum.PasswordResets,
		"audit_events", sum.AuditEvents,
		"ato_victims", sum.ATOVictims,
		"noisy_cells", sum.NoisyCells,
		"kid", sum.KeyID,
	)
	return sum, nil
}

// profile is the generator's private view of a user.
type profile struct {
	user       *domain.User
	homeIP     string
	userAgent  string
	totpSecret string
	seenIPs    []string
}

type builder struct {
	cfg    GenerateConfig
	signer jwtx.Signer
	r      *rng
	ids    *idx.Generator

	profiles []*profile
	victims  []string

	users    []domain.User
	sessions []domain.Session
	keys     []domain.APIKey
	resets   []domain.PasswordReset
	events   []domain.AuditEvent
}

func newBuilder(cfg GenerateConfig, signer jwtx.Signer) *builder {
	return &builder{
		cfg:    cfg,
		signer: signer,
		r:      newRNG(cfg.Seed, "rows"),
		ids:    idx.NewGenerator(newRNG(cfg.Seed, "ids")),
	}
}

func (b *builder) build() error {
	for i := range b.cfg.Users {
		if err := b.addUser(i); err != nil {
			return err
		}
	}

	for _, p := range b.profiles {
		if err := b.addActivity(p); err != nil {
			return err
		}
	}

	b.addUnattributedFailures()

	if err := b.addATOScenarios(); err != nil {
		return err
	}

	for _, p := range b.profiles {
		b.users = append(b.users, *p.user)
	}

	// Rows land in creation order
	byID := func(a, c string) int { return strings.Compare(a, c) }
	slices.SortFunc(b.users, func(a, c domain.User) int { return byID(a.ID, c.ID) })
	slices.SortFunc(b.sessions, func(a, c domain.Session) int { return byID(a.ID, c.ID) })
	slices.SortFunc(b.keys, func(a, c domain.APIKey) int { return byID(a.ID, c.ID) })
	slices.SortFunc(b.resets, func(a, c domain.PasswordReset) int { return byID(a.ID, c.ID) })
	slices.SortFunc(b.events, func(a, c domain.AuditEvent) int { return byID(a.ID, c.ID) })
	return nil
}

func (b *builder) id(at time.Time) string { return b.ids.NewAt(at).String() }

func (b *builder) pickRole() domain.Role {
	x := b.r.Float64()
	switch {
	case x < shareAdmin:
		return domain.RoleAdmin
	case x < shareAdmin+shareAuditor:
		return domain.RoleAuditor
	case x < shareAdmin+shareAuditor+shareService:
		return domain.RoleService
	}
	return domain.RoleUser
}

func (b *builder) addUser(i int) error {
	span := b.cfg.End.Sub(b.cfg.Start)
	createdAt := b.r.between(b.cfg.Start, b.cfg.Start.Add(span/2))
	role := b.pickRole()

	username := fmt.Sprintf("%s.%s%d", pick(b.r, firstNames), pick(b.r, lastNames), i)
	if role == domain.RoleService {
		username = fmt.Sprintf("svc-%s-%d", pick(b.r, serviceNames), i)
	}

	password, err := cryptox.GeneratePassword(b.r)
	if err != nil {
		return err
	}
	salt, err := cryptox.GenerateSalt(b.r)
	if err != nil {
		return err
	}

	u := &domain.User{
		ID:           b.id(createdAt),
		Username:     username,
		Email:        username + "@" + pick(b.r, emailDomains),
		PasswordHash: cryptox.HashPassword(password, salt, b.cfg.Argon2),
		Salt:         fmt.Sprintf("%x", salt),
		Role:         role,
		MFAEnabled:   b.r.chance(mfaRate[role]),
		CreatedAt:    createdAt,
	}

	p := &profile{
		user:      u,
		homeIP:    b.homeIP(),
		userAgent: pick(b.r, userAgents),
	}
	p.seenIPs = []string{p.homeIP}

	if u.MFAEnabled {
		key, err := totp.Generate(totp.GenerateOpts{
			Issuer:      b.cfg.Issuer,
			AccountName: u.Email,
			Period:      totpOpts.Period,
			Digits:      totpOpts.Digits,
			Algorithm:   totpOpts.Algorithm,
			Rand:        b.r,
		})
		if err != nil {
			return fmt.Errorf("generate totp secret: %w", err)
		}
		p.totpSecret = key.Secret()
	}

	b.profiles = append(b.profiles, p)
	return nil
}

func (b *builder) homeIP() string {
	return fmt.Sprintf("%d.%d.%d.%d", pick(b.r, homeOctets), b.r.IntN(256), b.r.IntN(256), 1+b.r.IntN(254))
}

func (b *builder) foreignIP() string {
	return fmt.Sprintf("%d.%d.%d.%d", pick(b.r, foreignOctets), b.r.IntN(256), b.r.IntN(256), 1+b.r.IntN(254))
}

func (b *builder) event(p *profile, typ domain.EventType, ip string, at time.Time, details map[string]any) {
	var userID *string
	if p != nil {
		id := p.user.ID
		userID = &id
	}
	raw, _ := json.Marshal(details)
	b.events = append(b.events, domain.AuditEvent{
		ID:        b.id(at),
		UserID:    userID,
		Type:      typ,
		IPAddress: ip,
		Details:   string(raw),
		CreatedAt: at,
	})
}

func (b *builder) addActivity(p *profile) error {
	u := p.user

	sessions := 1 + b.r.IntN(6)
	if u.Role == domain.RoleService {
		sessions = b.r.IntN(2)
	}
	for range sessions {
		ip := p.homeIP
		if b.r.chance(0.1) {
			// Travel or a second device
			ip = b.homeIP()
		}
		at := b.r.between(u.CreatedAt.Add(time.Minute), b.cfg.End)
		if err := b.login(p, ip, p.userAgent, at, true, true); err != nil {
			return err
		}
	}

	keys := 0
	switch {
	case u.Role == domain.RoleService:
		keys = 1 + b.r.IntN(3)
	case u.Role == domain.RoleAdmin:
		keys = 1
	case b.r.chance(0.05):
		keys = 1
	}
	for range keys {
		if err := b.addAPIKey(p, p.homeIP, b.r.between(u.CreatedAt, b.cfg.End), b.scopesFor(u.Role)); err != nil {
			return err
		}
	}

	if b.r.chance(0.03) {
		if err := b.addReset(p, p.homeIP, b.r.between(u.CreatedAt, b.cfg.End), b.r.chance(0.8)); err != nil {
			return err
		}
	}

	if u.Role != domain.RoleUser && b.r.chance(0.2) {
		from := pick(b.r, []domain.Role{domain.RoleUser, domain.RoleAuditor, domain.RoleService})
		if from != u.Role {
			b.event(p, domain.EventRoleChanged, p.homeIP, b.r.between(u.CreatedAt, b.cfg.End),
				map[string]any{"from": from, "to": u.Role})
		}
	}
	return nil
}

// login records the audit trail of one sign-in and the session it opens.
// With mayFail a mistyped password can precede the success. Without mfa the
// session is opened on the password alone, as when a factor is bypassed.
func (b *builder) login(p *profile, ip, ua string, at time.Time, mayFail, mfa bool) error {
	u := p.user

	if mayFail && b.r.chance(0.1) {
		b.event(p, domain.EventLoginFailed, ip, at.Add(-b.r.jitter(30*time.Second, 5*time.Minute)),
			map[string]any{"username": u.Username, "reason": "bad_password"})
	}

	b.event(p, domain.EventLoginSuccess, ip, at, map[string]any{"user_agent": ua})

	amr := []string{"pwd"}
	if mfa && u.MFAEnabled && p.totpSecret != "" {
		challengeAt := at.Add(b.r.jitter(5*time.Second, 40*time.Second))
		if b.r.chance(0.05) {
			if err := b.mfaChallenge(p, ip, challengeAt, false); err != nil {
				return err
			}
			challengeAt = challengeAt.Add(b.r.jitter(10*time.Second, 30*time.Second))
		}
		if err := b.mfaChallenge(p, ip, challengeAt, true); err != nil {
			return err
		}
		amr = append(amr, "otp")
		at = challengeAt
	}

	sessionID := b.id(at)
	expiresAt := at.Add(b.cfg.SessionTTL)
	token, err := b.signer.Sign(jwtx.NewSessionClaims(
		u.ID, sessionID, string(u.Role), amr, b.cfg.Issuer, b.id(at), at, expiresAt,
	))
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	active := expiresAt.After(b.cfg.End)
	if b.r.chance(0.6) {
		logoutAt := at.Add(b.r.jitter(5*time.Minute, b.cfg.SessionTTL))
		if logoutAt.Before(b.cfg.End) {
			b.event(p, domain.EventLogout, ip, logoutAt, map[string]any{"session_id": sessionID})
			active = false
		}
	}

	b.sessions = append(b.sessions, domain.Session{
		ID:        sessionID,
		UserID:    u.ID,
		Token:     token,
		IPAddress: ip,
		UserAgent: ua,
		CreatedAt: at,
		ExpiresAt: expiresAt,
		Active:    active,
	})

	if u.LastLogin == nil || at.After(*u.LastLogin) {
		last := at
		u.LastLogin = &last
	}
	if !slices.Contains(p.seenIPs, ip) {
		p.seenIPs = append(p.seenIPs, ip)
	}
	return nil
}

// mfaChallenge submits a TOTP code for the instant at and records whether it
// validated. A failing attempt submits the code of a different time step.
func (b *builder) mfaChallenge(p *profile, ip string, at time.Time, correct bool) error {
	codeAt := at
	if !correct {
		codeAt = at.Add(-time.Duration(2+b.r.IntN(10)) * time.Duration(totpOpts.Period) * time.Second)
	}
	code, err := totp.GenerateCodeCustom(p.totpSecret, codeAt, totpOpts)
	if err != nil {
		return fmt.Errorf("generate totp code: %w", err)
	}
	valid, err := totp.ValidateCustom(code, p.totpSecret, at, totpOpts)
	if err != nil {
		return fmt.Errorf("validate totp code: %w", err)
	}

	typ := domain.EventMFAChallengePassed
	if !valid {
		typ = domain.EventMFAChallengeFailed
	}
	b.event(p, typ, ip, at, map[string]any{"method": "totp"})
	return nil
}

func (b *builder) scopesFor(role domain.Role) []string {
	switch role {
	case domain.RoleAdmin:
		return []string{domain.ScopeRead, domain.ScopeWrite, domain.ScopeAdmin}
	case domain.RoleService:
		scopes := []string{domain.ScopeRead}
		if b.r.chance(0.5) {
			scopes = append(scopes, domain.ScopeWrite)
		}
		if b.r.chance(0.2) {
			scopes = append(scopes, domain.ScopeBilling)
		}
		return scopes
	}
	return []string{domain.ScopeRead}
}

func (b *builder) addAPIKey(p *profile, ip string, at time.Time, scopes []string) error {
	secret, err := cryptox.GenerateToken(b.r, cryptox.TokenSize256)
	if err != nil {
		return err
	}

	k := domain.APIKey{
		ID:        b.id(at),
		UserID:    p.user.ID,
		KeyHash:   cryptox.FingerprintToken("ak_" + secret),
		Scopes:    scopes,
		CreatedAt: at,
	}
	if b.r.chance(0.5) {
		exp := at.Add(pick(b.r, []time.Duration{90 * 24 * time.Hour, 365 * 24 * time.Hour}))
		k.ExpiresAt = &exp
	}
	b.event(p, domain.EventAPIKeyCreated, ip, at,
		map[string]any{"key_id": k.ID, "scope": domain.FormatScopes(scopes)})

	if b.r.chance(0.1) {
		revokedAt := b.r.between(at.Add(time.Hour), b.cfg.End.Add(time.Hour))
		if revokedAt.Before(b.cfg.End) {
			k.Revoked = true
			b.event(p, domain.EventAPIKeyRevoked, ip, revokedAt, map[string]any{"key_id": k.ID})
		}
	}

	b.keys = append(b.keys, k)
	return nil
}

// addReset records a reset request and, when completed, its use a few
// minutes later.
func (b *builder) addReset(p *profile, ip string, at time.Time, completed bool) error {
	token, err := cryptox.GenerateToken(b.r, cryptox.TokenSize128)
	if err != nil {
		return err
	}

	pr := domain.PasswordReset{
		ID:          b.id(at),
		UserID:      p.user.ID,
		ResetToken:  cryptox.FingerprintToken(token),
		RequestedAt: at,
		IPAddress:   ip,
	}
	b.event(p, domain.EventPasswordResetRequested, ip, at, map[string]any{"reset_id": pr.ID})

	if completed {
		usedAt := at.Add(b.r.jitter(2*time.Minute, 30*time.Minute))
		pr.UsedAt = &usedAt
		b.event(p, domain.EventPasswordResetCompleted, ip, usedAt, map[string]any{"reset_id": pr.ID})
	}

	b.resets = append(b.resets, pr)
	return nil
}

// addUnattributedFailures adds failed logins for usernames that do not
// exist, which the audit log keeps with a null user_id.
func (b *builder) addUnattributedFailures() {
	for i := range max(1, b.cfg.Users/20) {
		at := b.r.between(b.cfg.Start, b.cfg.End)
		b.event(nil, domain.EventLoginFailed, b.foreignIP(), at,
			map[string]any{"username": fmt.Sprintf("%s%d", pick(b.r, probeNames), i), "reason": "unknown_user"})
	}
}

// addATOScenarios plays out account takeovers on distinct victims, preferring
// accounts without MFA: a password spraying burst from a foreign address, a
// reset requested and completed from that address, a session opened from it
// and a fresh API key minted.
func (b *builder) addATOScenarios() error {
	candidates := make([]*profile, 0, len(b.profiles))
	for _, i := range b.r.Perm(len(b.profiles)) {
		if !b.profiles[i].user.MFAEnabled {
			candidates = append(candidates, b.profiles[i])
		}
	}
	for _, i := range b.r.Perm(len(b.profiles)) {
		if b.profiles[i].user.MFAEnabled {
			candidates = append(candidates, b.profiles[i])
		}
	}

	span := b.cfg.End.Sub(b.cfg.Start)
	for _, p := range candidates[:b.cfg.ATOScenarios] {
		attacker := b.foreignIP()
		at := b.r.between(b.cfg.Start.Add(span/2), b.cfg.End.Add(-3*time.Hour))
		if at.Before(p.user.CreatedAt) {
			at = p.user.CreatedAt.Add(time.Hour)
		}

		failures := 5 + b.r.IntN(10)
		for range failures {
			at = at.Add(b.r.jitter(2*time.Second, 20*time.Second))
			b.event(p, domain.EventLoginFailed, attacker, at,
				map[string]any{"username": p.user.Username, "reason": "bad_password"})
		}

		at = at.Add(b.r.jitter(time.Minute, 3*time.Minute))
		if err := b.addReset(p, attacker, at, true); err != nil {
			return err
		}
		at = *b.resets[len(b.resets)-1].UsedAt

		at = at.Add(b.r.jitter(time.Minute, 5*time.Minute))
		if err := b.login(p, attacker, pick(b.r, attackerAgents), at, false, false); err != nil {
			return err
		}

		at = at.Add(b.r.jitter(5*time.Minute, 30*time.Minute))
		if err := b.addAPIKey(p, attacker, at, []string{domain.ScopeRead, domain.ScopeWrite}); err != nil {
			return err
		}

		b.victims = append(b.victims, p.user.ID)
	}
	return nil
}

func (b *builder) write(ctx context.Context, tx store.Tx) error {
	for _, u := range b.users {
		if err := tx.Users().Insert(ctx, u); err != nil {
			return fmt.Errorf("insert user %s: %w", u.ID, err)
		}
	}
	for _, s := range b.sessions {
		if err := tx.Sessions().Insert(ctx, s); err != nil {
			return fmt.Errorf("insert session %s: %w", s.ID, err)
		}
	}
	for _, k := range b.keys {
		if err := tx.APIKeys().Insert(ctx, k); err != nil {
			return fmt.Errorf("insert api key %s: %w", k.ID, err)
		}
	}
	for _, r := range b.resets {
		if err := tx.PasswordResets().Insert(ctx, r); err != nil {
			return fmt.Errorf("insert password reset %s: %w", r.ID, err)
		}
	}
	for _, e := range b.events {
		if err := tx.AuditLog().Insert(ctx, e); err != nil {
			return fmt.Errorf("insert audit event %s: %w", e.ID, err)
		}
	}
	return nil
}

// Corrupted forms planted by noise.
var (
	badFlags      = []string{"true", "yes", "Y", "", "2"}
	badTimestamps = []string{"2024/03/01 10:00", "1709287200", "2024-03-01T21:00:00+11:00", "01/03/2024", "not a date"}
)

// corrupt plants at most one bad cell per row with probability Noise, so the
// dataset exercises coerce casting and the validator.
func (b *builder) corrupt(ctx context.Context, tables store.Tables) (int, error) {
	if b.cfg.Noise == 0 {
		return 0, nil
	}

	r := newRNG(b.cfg.Seed, "noise")
	ids := map[string][]string{
		schema.TableUsers:          collect(b.users, func(u domain.User) string { return u.ID }),
		schema.TableSessions:       collect(b.sessions, func(s domain.Session) string { return s.ID }),
		schema.TableAPIKeys:        collect(b.keys, func(k domain.APIKey) string { return k.ID }),
		schema.TablePasswordResets: collect(b.resets, func(pr domain.PasswordReset) string { return pr.ID }),
		schema.TableAuditLog:       collect(b.events, func(e domain.AuditEvent) string { return e.ID }),
	}

	noisy := 0
	for _, tbl := range schema.All() {
		for _, id := range ids[tbl.Name] {
			if !r.chance(b.cfg.Noise) {
				continue
			}

			var targets []func() (string, *string)
			for _, c := range tbl.Flags {
				targets = append(targets, func() (string, *string) { v := pick(r, badFlags); return c, &v })
			}
			for _, c := range tbl.Timestamps {
				targets = append(targets, func() (string, *string) {
					if !tbl.IsNullable(c) && r.chance(0.2) {
						return c, nil
					}
					v := pick(r, badTimestamps)
					return c, &v
				})
			}
			if b.cfg.Orphans {
				for _, ref := range tbl.References {
					targets = append(targets, func() (string, *string) {
						v := b.id(b.cfg.End)
						return ref.Column, &v
					})
				}
			}

			col, val := pick(r, targets)()
			if err := tables.SetValue(ctx, tbl.Name, tbl.PrimaryKey, id, col, val); err != nil {
				return noisy, err
			}
			noisy++
		}
	}
	return noisy, nil
}

func collect[T any](rows []T, key func(T) string) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = key(row)
	}
	return out
}

var (
	firstNames = []string{
		"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi",
		"ivan", "judy", "mallory", "niaj", "olivia", "peggy", "rupert", "sybil",
		"trent", "victor", "walter", "yusuf",
	}
	lastNames = []string{
		"nguyen", "smith", "patel", "kim", "garcia", "cohen", "okafor", "rossi",
		"murphy", "tanaka", "silva", "walker",
	}
	serviceNames  = []string{"billing", "ingest", "reports", "backup", "ci", "metrics", "mailer"}
	probeNames    = []string{"admin", "root", "test", "oracle", "support", "guest"}
	emailDomains  = []string{"example.com", "example.org", "example.net"}
	homeOctets    = []int{24, 49, 73, 81, 101, 122, 144, 172, 188, 203}
	foreignOctets = []int{5, 31, 45, 77, 91, 185, 194}
	userAgents    = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
		"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148",
		"authlab-cli/1.4 (linux; amd64)",
	}
	attackerAgents = []string{
		"python-requests/2.31.0",
		"Mozilla/5.0 (Windows NT 6.1; rv:52.0) Gecko/20100101 Firefox/52.0",
		"curl/7.88.1",
	}
)
