package models

import (
	"testing"
	"time"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"admin role", RoleAdmin, true},
		{"user role", RoleUser, true},
		{"driver role", RoleDriver, true},
		{"retired manager role", "manager", false},
		{"invalid role", "invalid", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestUser_HasPermission(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	user := &User{Role: RoleUser}
	driver := &User{Role: RoleDriver}
	unknown := &User{Role: "ghost"}

	tests := []struct {
		name     string
		user     *User
		action   string
		expected bool
	}{
		{"admin can manage buses", admin, "manage_buses", true},
		{"admin can delete drivers", admin, "manage_drivers", true},
		{"admin can view maintenance", admin, "view_maintenance", true},

		{"user can view buses", user, "view_buses", true},
		{"user can view maintenance", user, "view_maintenance", true},
		{"user cannot manage buses", user, "manage_buses", false},

		{"driver can view schedules", driver, "view_schedules", true},
		{"driver can view performance", driver, "view_performance", true},
		{"driver cannot view maintenance", driver, "view_maintenance", false},
		{"driver cannot manage schedules", driver, "manage_schedules", false},

		{"unknown role has nothing", unknown, "view_buses", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.user.HasPermission(tt.action)
			if result != tt.expected {
				t.Errorf("HasPermission(%s) = %v, want %v", tt.action, result, tt.expected)
			}
		})
	}
}

func TestUserStruct(t *testing.T) {
	now := time.Now()
	user := User{
		Email:     "ops@fleet.example",
		FullName:  "Ops Lead",
		Role:      RoleAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if user.Email != "ops@fleet.example" {
		t.Errorf("Expected email ops@fleet.example, got %s", user.Email)
	}
	if !user.IsActive {
		t.Error("Expected user to be active")
	}
	if user.Role != RoleAdmin {
		t.Errorf("Expected role admin, got %s", user.Role)
	}
}
