package users

import (
	"regexp"

	"github.com/whovivekshukla/dailype/app/models"
)

var (
	// 10-digit Indian mobile number, optionally prefixed with +91 or 0.
	mobNumPattern = regexp.MustCompile(`^(\+91|0)?[6-9]\d{9}$`)
	mobNumPrefix  = regexp.MustCompile(`^(\+91|0)`)

	// PAN: 5 letters, 4 digits, 1 letter. Checked after uppercasing.
	panNumPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

func validMobileNumber(mobNum string) bool {
	return mobNumPattern.MatchString(mobNum)
}

// normalizeMobileNumber strips a single leading +91 or 0 so every number is
// stored in its bare 10-digit form.
func normalizeMobileNumber(mobNum string) string {
	return mobNumPrefix.ReplaceAllString(mobNum, "")
}

func validPANNumber(panNum string) bool {
	return panNumPattern.MatchString(panNum)
}

func newUserRecord(fullName, mobNum, panNum, managerID string) *models.User {
	user := &models.User{
		FullName: fullName,
		MobNum:   mobNum,
		PanNum:   panNum,
	}
	if managerID != "" {
		user.ManagerID = &managerID
	}
	return user
}
