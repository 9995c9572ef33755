package scope

import "gorm.io/gorm"

// Profile narrows a query to one employee profile. Every compensation and
// payslip query runs under this scope so records can never leak across
// employees.
func Profile(profileID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("employee_profile_id = ?", profileID)
	}
}
