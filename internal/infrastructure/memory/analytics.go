package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{s} }

// AnalyticsRepo agregados del panel calculados sobre los mapas del store.
type AnalyticsRepo struct{ s *Store }

func (r *AnalyticsRepo) Counts(_ context.Context, schoolID string) (repository.SchoolCounts, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var c repository.SchoolCounts
	for _, v := range r.s.teachers {
		if v.SchoolID == schoolID {
			c.Teachers++
		}
	}
	for _, v := range r.s.classes {
		if v.SchoolID == schoolID {
			c.Classes++
		}
	}
	for _, v := range r.s.subjects {
		if v.SchoolID == schoolID {
			c.Subjects++
		}
	}
	for _, v := range r.s.students {
		if v.SchoolID == schoolID {
			c.Students++
		}
	}
	withCondition := make(map[string]struct{})
	for _, a := range r.s.assignments {
		if st, ok := r.s.students[a.StudentID]; ok && st.SchoolID == schoolID {
			withCondition[a.StudentID] = struct{}{}
		}
	}
	c.StudentsWithConditions = len(withCondition)
	return c, nil
}

func (r *AnalyticsRepo) SubjectAverages(_ context.Context, schoolID string, schoolYear int) ([]repository.SubjectAverage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	type acc struct {
		sum decimal.Decimal
		n   int
	}
	bySubject := make(map[string]*acc)
	for _, g := range r.s.grades {
		sub, ok := r.s.subjects[g.SubjectID]
		if !ok || sub.SchoolID != schoolID || g.SchoolYear != schoolYear {
			continue
		}
		a := bySubject[g.SubjectID]
		if a == nil {
			a = &acc{}
			bySubject[g.SubjectID] = a
		}
		a.sum = a.sum.Add(g.Grade)
		a.n++
	}
	out := make([]repository.SubjectAverage, 0, len(bySubject))
	for id, a := range bySubject {
		out = append(out, repository.SubjectAverage{
			SubjectID:   id,
			SubjectName: r.s.subjects[id].Name,
			Average:     a.sum.Div(decimal.NewFromInt(int64(a.n))),
			Grades:      a.n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Average.Equal(out[j].Average) {
			return out[i].Average.GreaterThan(out[j].Average)
		}
		return out[i].SubjectName < out[j].SubjectName
	})
	return out, nil
}

func (r *AnalyticsRepo) InsightsSince(_ context.Context, schoolID string, since time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, in := range r.s.insights {
		st, ok := r.s.students[in.StudentID]
		if ok && st.SchoolID == schoolID && !in.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}
