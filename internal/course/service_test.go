package course

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/lmsadmin/internal/apperr"
)

func newServiceWithMock(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewService(mock), mock
}

func courseColumns() []string {
	return []string{"id", "title", "description", "created_at", "updated_at"}
}

func TestCreateRequiresTitle(t *testing.T) {
	svc, _ := newServiceWithMock(t)

	_, err := svc.Create(context.Background(), CreateRequest{})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalid, apperr.CodeOf(err))
}

func TestGetByIDIncludesPackageRefs(t *testing.T) {
	svc, mock := newServiceWithMock(t)
	courseID := uuid.New()
	pkgID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM courses WHERE id = $1`)).
		WithArgs(courseID).
		WillReturnRows(pgxmock.NewRows(courseColumns()).
			AddRow(courseID, "Safety 101", "intro", now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`JOIN scorm_packages p ON p.id = x.scorm_package_id`)).
		WithArgs(courseID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title"}).AddRow(pkgID, "Module 1"))

	c, err := svc.GetByID(context.Background(), courseID)
	require.NoError(t, err)
	require.Len(t, c.ScormPackages, 1)
	assert.Equal(t, pkgID, c.ScormPackages[0].ID)
	assert.Equal(t, "Module 1", c.ScormPackages[0].Title)
}

func TestGetByIDNotFound(t *testing.T) {
	svc, mock := newServiceWithMock(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM courses WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(courseColumns()))

	_, err := svc.GetByID(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestListGroupsPackagesByCourse(t *testing.T) {
	svc, mock := newServiceWithMock(t)
	c1 := uuid.New()
	c2 := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM courses ORDER BY created_at DESC`)).
		WillReturnRows(pgxmock.NewRows(courseColumns()).
			AddRow(c1, "A", "", now, now).
			AddRow(c2, "B", "", now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM course_scorm_package_xref x`)).
		WillReturnRows(pgxmock.NewRows([]string{"course_id", "id", "title"}).
			AddRow(c1, uuid.New(), "P1").
			AddRow(c1, uuid.New(), "P2"))

	courses, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Len(t, courses[0].ScormPackages, 2)
	assert.Empty(t, courses[1].ScormPackages)
}

func TestAddPackageIsIdempotentInsert(t *testing.T) {
	svc, mock := newServiceWithMock(t)
	courseID := uuid.New()
	pkgID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`)).
		WithArgs(courseID, pkgID).
		WillReturnRows(pgxmock.NewRows([]string{"course", "package"}).AddRow(true, true))
	// Second add of the same pair inserts zero rows and still succeeds.
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT DO NOTHING`)).
		WithArgs(courseID, pkgID).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	assert.NoError(t, svc.AddPackage(context.Background(), courseID, pkgID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddPackageUnresolvedID(t *testing.T) {
	svc, mock := newServiceWithMock(t)
	courseID := uuid.New()
	pkgID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs(courseID, pkgID).
		WillReturnRows(pgxmock.NewRows([]string{"course", "package"}).AddRow(true, false))

	err := svc.AddPackage(context.Background(), courseID, pkgID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	assert.Equal(t, "Course or SCORM package not found", apperr.Message(err))
}

func TestRemovePackageMissingLinkSucceeds(t *testing.T) {
	svc, mock := newServiceWithMock(t)
	courseID := uuid.New()
	pkgID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs(courseID, pkgID).
		WillReturnRows(pgxmock.NewRows([]string{"course", "package"}).AddRow(true, true))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM course_scorm_package_xref`)).
		WithArgs(courseID, pkgID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, svc.RemovePackage(context.Background(), courseID, pkgID))
}

func TestUpdateNotFound(t *testing.T) {
	svc, mock := newServiceWithMock(t)
	id := uuid.New()
	title := "New"

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE courses SET`)).
		WithArgs(id, &title, (*string)(nil)).
		WillReturnRows(pgxmock.NewRows(courseColumns()))

	_, err := svc.Update(context.Background(), id, UpdateRequest{Title: &title})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
