// Package validate holds the forward-progress checks: required-field
// presence, numeric range and URL shape. Anything richer belongs to the
// server.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cesworks/fieldcheck/internal/client/models"
	"github.com/cesworks/fieldcheck/internal/common"
)

var httpLink = regexp.MustCompile(`(?i)^https?://`)

// Draft checks what a draft save needs. Partial data is fine; what is
// present must be well-formed.
func Draft(s models.Snapshot) error {
	var missing []string
	if s.EmployeeID == "" {
		missing = append(missing, "employeeId")
	}
	if s.UnitID == "" {
		missing = append(missing, "unitId")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required: %s", strings.Join(missing, ", "))
	}
	if err := meter(s.MeterReading); err != nil {
		return err
	}
	if s.LocationLink != "" && !httpLink.MatchString(s.LocationLink) {
		return fmt.Errorf("locationLink must start with http(s) or stay blank")
	}
	return nil
}

// Finalize checks everything the terminal submit requires on top of Draft.
func Finalize(s models.Snapshot) error {
	if err := Draft(s); err != nil {
		return err
	}
	var missing []string
	if s.PolicyAcknowledged == nil {
		missing = append(missing, "policyAcknowledged")
	}
	if s.SafeToOperate == nil {
		missing = append(missing, "safeToOperate")
	}
	if s.NeedsRepair == nil {
		missing = append(missing, "needsRepair")
	}
	if s.NeedsRepair != nil && *s.NeedsRepair && s.RepairDesc == "" {
		missing = append(missing, "repairDesc")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required before finalize: %s", strings.Join(missing, ", "))
	}
	return nil
}

func meter(raw string) error {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("meterReading must be numeric")
	}
	if v < common.MeterMin || v > common.MeterMax {
		return fmt.Errorf("meterReading must be %d-%d", common.MeterMin, common.MeterMax)
	}
	return nil
}
