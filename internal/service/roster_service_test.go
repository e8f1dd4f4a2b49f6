package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/minesafe-service/internal/domain"
	apperrors "github.com/spec-kit/minesafe-service/pkg/util"
)

func newRosterFixture() (*RosterService, *fakeUserRepo) {
	users := newFakeUserRepo()
	return NewRosterService(testAuthConfig(), users, zap.NewNop()), users
}

func TestCreateMinerForcesRole(t *testing.T) {
	svc, users := newRosterFixture()
	site := "north-pit"
	supervisor := supervisorUser("s1")
	supervisor.MiningSite = &site
	users.add(supervisor)

	miner, err := svc.CreateMiner(context.Background(), supervisor, MinerInput{
		Name:     "Dana",
		Email:    "dana@mine.test",
		Password: "hunter2",
	})
	if err != nil {
		t.Fatalf("create miner: %v", err)
	}
	if miner.Role != domain.RoleMiner {
		t.Errorf("role = %s, want MINER", miner.Role)
	}
	if miner.SupervisorID == nil || *miner.SupervisorID != "s1" {
		t.Errorf("supervisor id = %v, want s1", miner.SupervisorID)
	}
	if miner.MiningSite == nil || *miner.MiningSite != "north-pit" {
		t.Errorf("mining site = %v, want inherited north-pit", miner.MiningSite)
	}
}

func TestCreateMinerDeniedForMiners(t *testing.T) {
	svc, _ := newRosterFixture()
	_, err := svc.CreateMiner(context.Background(), minerUser("m1"), MinerInput{
		Name:     "Dana",
		Email:    "dana@mine.test",
		Password: "hunter2",
	})
	if apperrors.CodeOf(err) != "FORBIDDEN" {
		t.Errorf("err = %v, want FORBIDDEN", err)
	}
}

func TestCreateMinerDuplicateEmail(t *testing.T) {
	svc, users := newRosterFixture()
	existing := minerUser("m1")
	existing.Email = "dana@mine.test"
	users.add(existing)

	_, err := svc.CreateMiner(context.Background(), supervisorUser("s1"), MinerInput{
		Name:     "Dana Again",
		Email:    "Dana@Mine.Test",
		Password: "hunter2",
	})
	if apperrors.CodeOf(err) != "DUPLICATE_EMAIL" {
		t.Errorf("err = %v, want DUPLICATE_EMAIL", err)
	}
}

func TestUpdateMinerKeepsRole(t *testing.T) {
	svc, users := newRosterFixture()
	miner := minerUser("m1")
	miner.Email = "dana@mine.test"
	users.add(miner)

	updated, err := svc.UpdateMiner(context.Background(), supervisorUser("s1"), "m1", MinerInput{
		Name:  "Dana Prime",
		Phone: "555-0101",
	})
	if err != nil {
		t.Fatalf("update miner: %v", err)
	}
	if updated.Role != domain.RoleMiner {
		t.Errorf("role = %s, want MINER", updated.Role)
	}
	if updated.Name != "Dana Prime" {
		t.Errorf("name = %q, want Dana Prime", updated.Name)
	}
	if updated.Phone == nil || *updated.Phone != "555-0101" {
		t.Errorf("phone = %v, want 555-0101", updated.Phone)
	}
}

// Supervisor accounts are invisible through the roster even when the id
// exists.
func TestRosterHidesNonMiners(t *testing.T) {
	svc, users := newRosterFixture()
	users.add(supervisorUser("s2"))

	_, err := svc.GetMiner(context.Background(), supervisorUser("s1"), "s2")
	if apperrors.CodeOf(err) != "NOT_FOUND" {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestDeleteMiner(t *testing.T) {
	svc, users := newRosterFixture()
	users.add(minerUser("m1"))

	if err := svc.DeleteMiner(context.Background(), supervisorUser("s1"), "m1"); err != nil {
		t.Fatalf("delete miner: %v", err)
	}
	if err := svc.DeleteMiner(context.Background(), supervisorUser("s1"), "m1"); apperrors.CodeOf(err) != "NOT_FOUND" {
		t.Errorf("second delete: err = %v, want NOT_FOUND", err)
	}
}

func TestListMinersSupervisorOnly(t *testing.T) {
	svc, users := newRosterFixture()
	users.add(minerUser("m1"))
	users.add(minerUser("m2"))
	users.add(supervisorUser("s1"))

	miners, err := svc.ListMiners(context.Background(), supervisorUser("s1"))
	if err != nil {
		t.Fatalf("list miners: %v", err)
	}
	if len(miners) != 2 {
		t.Errorf("got %d miners, want 2", len(miners))
	}

	if _, err := svc.ListMiners(context.Background(), minerUser("m1")); apperrors.CodeOf(err) != "FORBIDDEN" {
		t.Errorf("miner list: err = %v, want FORBIDDEN", err)
	}
}
