package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/percytech/hubgate/pkg/domain"
	"github.com/percytech/hubgate/pkg/hub"
)

func TestMembershipsRepository_GetActiveWithCompanies(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMembershipsRepository(db)
	identityID := uuid.New()
	membershipID := uuid.New()
	companyID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"m_id", "m_company_id", "m_identity_id", "m_role", "m_status", "m_created_at", "m_updated_at", "m_deleted_at",
		"c_id", "c_hub_id", "c_name", "c_payment_completed", "c_created_at", "c_updated_at", "c_deleted_at",
	}).AddRow(
		membershipID, companyID, identityID, "admin", "active", now, now, nil,
		companyID, "percytext", "Bourbon & Cigars LLC", true, now, now, nil,
	)

	mock.ExpectQuery("SELECT(.+)FROM memberships m(.+)INNER JOIN companies c").
		WithArgs(identityID).
		WillReturnRows(rows)

	results, err := repo.GetActiveWithCompanies(context.Background(), identityID)
	if err != nil {
		t.Fatalf("GetActiveWithCompanies: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Membership.Role != domain.RoleAdmin {
		t.Errorf("Role = %q, want admin", results[0].Membership.Role)
	}
	if results[0].Company.HubID != hub.PercyText {
		t.Errorf("HubID = %q, want percytext", results[0].Company.HubID)
	}
	if !results[0].Company.PaymentCompleted {
		t.Error("PaymentCompleted = false, want true")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMembershipsRepository_UpdateRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMembershipsRepository(db)
	id := uuid.New()

	t.Run("updates", func(t *testing.T) {
		mock.ExpectExec("UPDATE memberships").
			WithArgs("owner", id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.UpdateRole(context.Background(), id, domain.RoleOwner); err != nil {
			t.Fatalf("UpdateRole: %v", err)
		}
	})

	t.Run("missing membership", func(t *testing.T) {
		mock.ExpectExec("UPDATE memberships").
			WithArgs("member", id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateRole(context.Background(), id, domain.RoleMember)
		if !errors.Is(err, domain.ErrMembershipNotFound) {
			t.Errorf("err = %v, want ErrMembershipNotFound", err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
