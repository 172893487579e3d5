// Package validate turns raw, user-entered process fields into process
// descriptors. It is the input collector in front of the engine: it checks
// required fields, parses numbers, and rejects duplicate ids.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/me/procviz/pkg/model"
)

// ParseProcess validates one raw form entry. An empty priority defaults to 0.
func ParseProcess(in model.ProcessInput) (model.Process, error) {
	id := strings.TrimSpace(in.ID)
	arrival := strings.TrimSpace(in.ArrivalTime)
	burst := strings.TrimSpace(in.BurstTime)
	priority := strings.TrimSpace(in.Priority)

	var missing []model.FieldError
	if id == "" {
		missing = append(missing, model.FieldError{Field: "id", Message: "required"})
	}
	if arrival == "" {
		missing = append(missing, model.FieldError{Field: "arrival_time", Message: "required"})
	}
	if burst == "" {
		missing = append(missing, model.FieldError{Field: "burst_time", Message: "required"})
	}
	if len(missing) > 0 {
		return model.Process{}, model.NewValidationError("Please fill in all required fields", missing...)
	}

	var errs []model.FieldError
	p := model.Process{ID: id, State: model.ProcessStateNew}

	n, err := parseInt("arrival_time", arrival)
	if err != nil {
		errs = append(errs, *err)
	}
	p.ArrivalTime = n

	n, err = parseInt("burst_time", burst)
	if err != nil {
		errs = append(errs, *err)
	}
	p.BurstTime = n

	if priority != "" {
		n, err = parseInt("priority", priority)
		if err != nil {
			errs = append(errs, *err)
		}
		p.Priority = n
	}

	if len(errs) > 0 {
		return model.Process{}, model.NewValidationError("Invalid process fields", errs...)
	}
	if fe := checkRanges(p); len(fe) > 0 {
		return model.Process{}, model.NewValidationError("Invalid process fields", fe...)
	}
	return p, nil
}

// CheckUnique rejects p when its id is already in existing.
func CheckUnique(existing []model.Process, p model.Process) error {
	for _, e := range existing {
		if e.ID == p.ID {
			return model.NewDuplicateError(p.ID)
		}
	}
	return nil
}

// Processes validates a complete process set, as loaded from a file or an
// API request, and reports every problem at once. Duplicate ids are
// reported as a DUPLICATE_ID error when they are the only problem.
func Processes(list []model.Process) error {
	if len(list) == 0 {
		return model.NewValidationError("no processes",
			model.FieldError{Field: "processes", Message: "at least one process is required"})
	}

	var errs []model.FieldError
	seen := make(map[string]int, len(list))
	var dup string
	for i, p := range list {
		path := fmt.Sprintf("processes[%d]", i)
		if strings.TrimSpace(p.ID) == "" {
			errs = append(errs, model.FieldError{Field: "id", Path: path, Message: "required"})
			continue
		}
		if first, ok := seen[p.ID]; ok {
			if dup == "" {
				dup = p.ID
			}
			errs = append(errs, model.FieldError{Field: "id", Path: path,
				Message: fmt.Sprintf("duplicate of processes[%d]", first)})
		} else {
			seen[p.ID] = i
		}
		for _, fe := range checkRanges(p) {
			fe.Path = path
			errs = append(errs, fe)
		}
	}

	if len(errs) == 0 {
		if fe := checkHorizon(list); fe != nil {
			errs = append(errs, *fe)
		}
	}

	switch {
	case len(errs) == 0:
		return nil
	case dup != "" && onlyDuplicates(errs):
		return &model.APIError{Code: model.ErrDuplicate, Message: "A process with this ID already exists", Details: errs}
	default:
		return model.NewValidationError("Invalid process set", errs...)
	}
}

// CheckHorizon rejects a process list whose schedule could run past
// model.MaxTime.
func CheckHorizon(list []model.Process) error {
	if fe := checkHorizon(list); fe != nil {
		return model.NewValidationError("Process times are too large", *fe)
	}
	return nil
}

func checkHorizon(list []model.Process) *model.FieldError {
	if model.Horizon(list) > model.MaxTime {
		return &model.FieldError{Field: "processes",
			Message: fmt.Sprintf("latest arrival plus total burst time must not exceed %d", model.MaxTime)}
	}
	return nil
}

func checkRanges(p model.Process) []model.FieldError {
	var errs []model.FieldError
	switch {
	case p.ArrivalTime < 0:
		errs = append(errs, model.FieldError{Field: "arrival_time", Message: "must be zero or greater"})
	case p.ArrivalTime > model.MaxTime:
		errs = append(errs, model.FieldError{Field: "arrival_time", Message: fmt.Sprintf("must not exceed %d", model.MaxTime)})
	}
	switch {
	case p.BurstTime <= 0:
		errs = append(errs, model.FieldError{Field: "burst_time", Message: "must be greater than zero"})
	case p.BurstTime > model.MaxTime:
		errs = append(errs, model.FieldError{Field: "burst_time", Message: fmt.Sprintf("must not exceed %d", model.MaxTime)})
	}
	if p.Priority < -model.MaxTime || p.Priority > model.MaxTime {
		errs = append(errs, model.FieldError{Field: "priority", Message: fmt.Sprintf("must be between %d and %d", -model.MaxTime, model.MaxTime)})
	}
	return errs
}

func onlyDuplicates(errs []model.FieldError) bool {
	for _, e := range errs {
		if !strings.HasPrefix(e.Message, "duplicate of") {
			return false
		}
	}
	return true
}

func parseInt(field, s string) (int, *model.FieldError) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &model.FieldError{Field: field, Message: fmt.Sprintf("%q is not a whole number", s)}
	}
	return n, nil
}
