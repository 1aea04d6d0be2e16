package cmd

import (
	"context"
	"fmt"

	errors "github.com/frahmantamala/employee-api/internal"
	"github.com/frahmantamala/employee-api/internal/auth"
	"github.com/frahmantamala/employee-api/internal/employee"
	"github.com/frahmantamala/employee-api/internal/store"
	"github.com/frahmantamala/employee-api/pkg/logger"
	"github.com/spf13/cobra"
)

const (
	demoUserEmail    = "demo@example.com"
	demoUserPassword = "password123"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample employees and a demo user for development and testing purposes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		lg := logger.LoggerWrapper()

		st, err := store.Open(ctx, cfg.Database, lg)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer st.Close(ctx)

		if err := st.Migrate(ctx); err != nil {
			return err
		}
		if clearData {
			if err := st.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear data: %w", err)
			}
		}

		employees := employee.NewService(st.Employees, lg)
		for _, dto := range sampleEmployees() {
			e, err := employees.CreateEmployee(ctx, dto)
			if errors.IsType(err, errors.ErrorTypeConflict) {
				fmt.Println("employee already exists:", dto.Email)
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to seed employee %s: %w", dto.Email, err)
			}
			fmt.Println("Seeded employee:", e.Email)
		}

		// signup never issues tokens
		authService := auth.NewService(st.Users, nil, cfg.Security.BCryptCost, lg)
		_, err = authService.Signup(ctx, auth.SignupDTO{
			Name:     "Demo User",
			Email:    demoUserEmail,
			Password: demoUserPassword,
		})
		switch {
		case errors.IsType(err, errors.ErrorTypeConflict):
			fmt.Println("demo user already exists:", demoUserEmail)
		case err != nil:
			return fmt.Errorf("failed to seed demo user: %w", err)
		default:
			fmt.Println("Seeded demo user:", demoUserEmail)
		}

		return nil
	},
}

func sampleEmployees() []employee.CreateEmployeeDTO {
	salary := func(v float64) *float64 { return &v }
	return []employee.CreateEmployeeDTO{
		{FirstName: "Ada", LastName: "Lovelace", Email: "ada.lovelace@example.com", Department: "Engineering", Position: "Principal Engineer", Salary: salary(185000)},
		{FirstName: "Grace", LastName: "Hopper", Email: "grace.hopper@example.com", Department: "Engineering", Position: "Engineering Manager", Salary: salary(172000)},
		{FirstName: "Alan", LastName: "Turing", Email: "alan.turing@example.com", Department: "Research", Position: "Research Scientist", Salary: salary(160000)},
		{FirstName: "Katherine", LastName: "Johnson", Email: "katherine.johnson@example.com", Department: "Finance", Position: "Analyst", Salary: salary(98000)},
		{FirstName: "Linus", LastName: "Torvalds", Email: "linus.torvalds@example.com", Department: "Operations", Position: "SRE", Salary: salary(140000)},
	}
}
