package repository

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gudang-labs/warehouse-dashboard/internal/models"
)

type seedUser struct {
	username string
	fullName string
	role     models.Role
	subRole  models.SubRole
}

var seedUsers = []seedUser{
	{"kepala", "Hendra Wijaya", models.RoleWarehouseHead, ""},
	{"adminlog", "Dewi Lestari", models.RoleLogisticsAdmin, ""},
	{"leaderin", "Agus Prasetyo", models.RoleOperations, models.SubRoleLeaderIncoming},
	{"budi", "Budi Santoso", models.RoleOperations, models.SubRoleBinning},
	{"rina", "Rina Kusuma", models.RoleOperations, models.SubRoleGoodReceive},
	{"joko", "Joko Susilo", models.RoleOperations, models.SubRoleQualityInspection},
	{"leaderout", "Sri Mulyani", models.RoleOperations, models.SubRoleLeaderOutgoing},
	{"siti", "Siti Rahma", models.RoleOperations, models.SubRolePicking},
	{"andi", "Andi Saputra", models.RoleOperations, models.SubRolePicking},
	{"maya", "Maya Anggraini", models.RoleOperations, models.SubRoleQualityControl},
}

// SeedPassword is the shared credential of every seeded account.
const SeedPassword = "gudang123"

// Seed fills the repository with a fixed operator roster and thirty days
// of daily logs ending yesterday. Counts follow a deterministic pattern so
// trends and averages stay stable between runs.
func Seed(ctx context.Context, repo Repository) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	operatorIDs := make([]int, 0, len(seedUsers))
	for _, su := range seedUsers {
		user := &UserRecord{
			Username:     su.username,
			FullName:     su.fullName,
			Email:        su.username + "@gudang.id",
			PasswordHash: string(hash),
			Role:         su.role,
			SubRole:      su.subRole,
		}
		if err := repo.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("seed user %s: %w", su.username, err)
		}
		if su.role == models.RoleOperations {
			operatorIDs = append(operatorIDs, user.ID)
		}
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for day := 30; day >= 1; day-- {
		date := today.AddDate(0, 0, -day)
		if date.Weekday() == time.Sunday {
			continue
		}

		// Rotate which operators show up so presence charts vary.
		present := make([]int, 0, len(operatorIDs))
		for i, id := range operatorIDs {
			if (day+i)%7 != 0 {
				present = append(present, id)
			}
		}

		log := &LogRecord{
			LogDate:      date,
			BinningCount: 180 + (day*13)%120,
			PickingCount: 160 + (day*7)%140,
			WorkNotes:    fmt.Sprintf("Shift normal, %d operator hadir", len(present)),
			WorkerIDs:    present,
		}
		if err := repo.CreateLog(ctx, log); err != nil {
			return fmt.Errorf("seed log %s: %w", date.Format("2006-01-02"), err)
		}
	}

	return nil
}
