package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aanand-mishra/student-records-api/internal/types"
)

// SampleStudents is the demo data loaded by SeedSampleData.
var SampleStudents = []types.Student{
	{FirstName: "Alice", LastName: "Smith", DOB: types.NewDate(2000, time.January, 1), AmountDue: 100.0},
	{FirstName: "Bob", LastName: "Johnson", DOB: types.NewDate(2001, time.February, 2), AmountDue: 200.0},
	{FirstName: "Charlie", LastName: "Williams", DOB: types.NewDate(2002, time.March, 3), AmountDue: 300.0},
	{FirstName: "David", LastName: "Brown", DOB: types.NewDate(2003, time.April, 4), AmountDue: 400.0},
	{FirstName: "Eva", LastName: "Jones", DOB: types.NewDate(2004, time.May, 5), AmountDue: 500.0},
	{FirstName: "Frank", LastName: "Garcia", DOB: types.NewDate(2005, time.June, 6), AmountDue: 600.0},
	{FirstName: "Grace", LastName: "Martinez", DOB: types.NewDate(2006, time.July, 7), AmountDue: 700.0},
	{FirstName: "Henry", LastName: "Davis", DOB: types.NewDate(2007, time.August, 8), AmountDue: 800.0},
	{FirstName: "Ivy", LastName: "Rodriguez", DOB: types.NewDate(2008, time.September, 9), AmountDue: 900.0},
	{FirstName: "Jack", LastName: "Miller", DOB: types.NewDate(2009, time.October, 10), AmountDue: 1000.0},
}

// SeedSampleData inserts SampleStudents if the store is empty.
// It returns the number of students inserted.
func SeedSampleData(ctx context.Context, s Storage, log *slog.Logger) (int, error) {
	n, err := s.CountStudents(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: count students: %w", err)
	}
	if n > 0 {
		log.Debug("store already populated, skipping seed", slog.Int("students", n))
		return 0, nil
	}

	for i, student := range SampleStudents {
		if _, err := s.CreateStudent(ctx, student); err != nil {
			return i, fmt.Errorf("seed: create %s %s: %w", student.FirstName, student.LastName, err)
		}
	}

	log.Info("seeded sample students", slog.Int("count", len(SampleStudents)))
	return len(SampleStudents), nil
}
