package dataset

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

// recordValidate checks the struct tags on Dataset and Process.
var recordValidate *validator.Validate

func init() {
	recordValidate = validator.New(validator.WithRequiredStructEnabled())
	if err := recordValidate.RegisterValidation("processid", validateProcessID); err != nil {
		panic(fmt.Sprintf("dataset: register processid validation: %v", err))
	}
}

func validateProcessID(fl validator.FieldLevel) bool {
	_, _, err := ParseProcessID(fl.Field().String())
	return err == nil
}

// Validate checks the dataset invariants the question builder relies on:
// five process groups, a non-empty process list with unique well-formed
// IDs, and every process tagged with a declared group and knowledge area.
// Returns a combined error describing all problems found.
func Validate(ds *Dataset) error {
	var errs []error

	if err := recordValidate.Struct(ds); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("%s: failed %q check", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err)
		}
	}

	for _, p := range ds.Processes {
		if !slices.Contains(ds.ProcessGroups, p.ProcessGroup) {
			errs = append(errs, fmt.Errorf("process %s: unknown process group %q", p.ID, p.ProcessGroup))
		}
		if !slices.Contains(ds.KnowledgeAreas, p.KnowledgeArea) {
			errs = append(errs, fmt.Errorf("process %s: unknown knowledge area %q", p.ID, p.KnowledgeArea))
		}
	}

	return errors.Join(errs...)
}
