package service

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/lshigami/cctfd/config"
	"github.com/lshigami/cctfd/internal/cache"
	"github.com/lshigami/cctfd/internal/dto"
	"github.com/lshigami/cctfd/internal/keys"
	"github.com/lshigami/cctfd/internal/model"
	"github.com/lshigami/cctfd/internal/repository"
	"github.com/lshigami/cctfd/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	platformTeam = 1
	ownerTeam    = 7
	solverTeam   = 9
	laterTeam    = 11
	bannedTeam   = 13
)

type fixture struct {
	db        *gorm.DB
	deps      ChallengeTypeDeps
	registry  *ChallengeTypeRegistry
	community ChallengeType
	standard  ChallengeType
	unlocks   repository.UnlockRepository
	storeDir  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	name := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	teams := []model.Team{
		{ID: platformTeam, Name: "platform", Admin: true, Verified: true},
		{ID: ownerTeam, Name: "authors", Verified: true},
		{ID: solverTeam, Name: "solvers", Verified: true},
		{ID: laterTeam, Name: "latecomers", Verified: true},
		{ID: bannedTeam, Name: "cheaters", Banned: true, Verified: true},
	}
	if err := db.Create(&teams).Error; err != nil {
		t.Fatalf("seed teams: %v", err)
	}

	storeDir := t.TempDir()
	fs, err := storage.NewLocalFileStorageAt(storeDir)
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	deps := ChallengeTypeDeps{
		DB:         db,
		Challenges: repository.NewChallengeRepository(db),
		Community:  repository.NewCommunityChallengeRepository(db),
		Keys:       repository.NewKeyRepository(db),
		Solves:     repository.NewSolveRepository(db),
		WrongKeys:  repository.NewWrongKeyRepository(db),
		Awards:     repository.NewAwardRepository(db),
		Files:      repository.NewFileRepository(db),
		Tags:       repository.NewTagRepository(db),
		Hints:      repository.NewHintRepository(db),
		Teams:      repository.NewTeamRepository(db),
		Comparers:  keys.NewRegistry(),
		Storage:    fs,
		Cache:      cache.NewMemoryCache(time.Minute),
	}

	f := &fixture{
		db:        db,
		deps:      deps,
		registry:  NewChallengeTypeRegistry(),
		community: NewCommunityChallengeService(deps),
		standard:  NewStandardChallengeService(deps),
		unlocks:   repository.NewUnlockRepository(db),
		storeDir:  storeDir,
	}
	if err := f.registry.Register(f.standard); err != nil {
		t.Fatalf("register standard: %v", err)
	}
	if err := f.registry.Register(f.community); err != nil {
		t.Fatalf("register community: %v", err)
	}
	return f
}

func (f *fixture) challengeService(state CTFStateService) ChallengeService {
	return NewChallengeService(f.deps.Challenges, f.deps.Teams, f.deps.Solves, f.deps.WrongKeys, f.registry, state)
}

func (f *fixture) listService(state CTFStateService) ChallengeListService {
	return NewChallengeListService(f.deps.Challenges, f.deps.Tags, f.deps.Files, f.deps.Hints, f.deps.Teams, f.unlocks, f.registry, state, f.deps.Cache)
}

func (f *fixture) team(t *testing.T, id uint) *model.Team {
	t.Helper()
	team, err := f.deps.Teams.FindByID(id)
	if err != nil {
		t.Fatalf("FindByID(%d): %v", id, err)
	}
	return team
}

func (f *fixture) count(t *testing.T, m any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(m).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", m, err)
	}
	return n
}

// openState is a competition that is running with no window configured.
func openState() CTFStateService {
	return NewCTFStateServiceAt(config.CTF{}, time.Now)
}

func communityForm(name string) dto.CreateChallengeForm {
	return dto.CreateChallengeForm{
		Name:     name,
		Value:    "100",
		Category: "Web",
		ChalType: model.ChallengeTypeCommunity,
		Key:      "flag{x}",
		KeyType:  keys.TypeStatic,
	}
}

func updateForm(id uint, name, value, maxAttempts string) dto.UpdateChallengeForm {
	return dto.UpdateChallengeForm{
		ID:          id,
		Name:        name,
		Value:       value,
		Category:    "Web",
		MaxAttempts: maxAttempts,
	}
}

func fileHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("files[]", name)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte(content))
	w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	return form.File["files[]"][0]
}
