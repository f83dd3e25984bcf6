// Package repomanager groups the repositories behind one constructor so
// services can be handed the whole set or a transaction-scoped view.
package repomanager

import (
	"github.com/cesworks/fieldcheck/internal/dbx"
	"github.com/cesworks/fieldcheck/internal/server/repositories/answers"
	"github.com/cesworks/fieldcheck/internal/server/repositories/employees"
	"github.com/cesworks/fieldcheck/internal/server/repositories/inspections"
	"github.com/cesworks/fieldcheck/internal/server/repositories/photos"
	"github.com/cesworks/fieldcheck/internal/server/repositories/units"
)

// RepositoryManager builds repositories over an arbitrary DBTX, which lets
// a service run several repositories inside one transaction.
type RepositoryManager interface {
	Inspections(db dbx.DBTX) inspections.Repository
	Photos(db dbx.DBTX) photos.Repository
	Answers(db dbx.DBTX) answers.Repository
	Units(db dbx.DBTX) units.Repository
	Employees(db dbx.DBTX) employees.Repository
}
