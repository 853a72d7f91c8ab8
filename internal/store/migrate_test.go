// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package store

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadline/threadline/pkg/errutil"
)

// fakeMigrate implements migrateIface without a database.
type fakeMigrate struct {
	upErr      error
	downErr    error
	version    uint
	dirty      bool
	versionErr error
	forceErr   error
	forcedTo   int
	srcErr     error
	dbErr      error
}

func (f *fakeMigrate) Up() error   { return f.upErr }
func (f *fakeMigrate) Down() error { return f.downErr }

func (f *fakeMigrate) Version() (uint, bool, error) {
	return f.version, f.dirty, f.versionErr
}

func (f *fakeMigrate) Force(version int) error {
	f.forcedTo = version
	return f.forceErr
}

func (f *fakeMigrate) Close() (error, error) {
	return f.srcErr, f.dbErr
}

func TestMigrator_Up(t *testing.T) {
	t.Run("applies migrations", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{}}
		require.NoError(t, m.Up())
	})

	t.Run("no change is not an error", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{upErr: migrate.ErrNoChange}}
		require.NoError(t, m.Up())
	})

	t.Run("other failures propagate", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{upErr: errors.New("syntax error")}}
		err := m.Up()
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "MIGRATION_UP_FAILED")
	})
}

func TestMigrator_Down(t *testing.T) {
	t.Run("no change is not an error", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{downErr: migrate.ErrNoChange}}
		require.NoError(t, m.Down())
	})

	t.Run("other failures propagate", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{downErr: errors.New("locked")}}
		require.Error(t, m.Down())
	})
}

func TestMigrator_Version(t *testing.T) {
	t.Run("reports version and dirty state", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{version: 3, dirty: true}}

		version, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(3), version)
		assert.True(t, dirty)
	})

	t.Run("nil version means nothing applied", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{versionErr: migrate.ErrNilVersion}}

		version, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(0), version)
		assert.False(t, dirty)
	})

	t.Run("other failures propagate", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{versionErr: errors.New("connection refused")}}

		_, _, err := m.Version()
		require.Error(t, err)
	})
}

func TestMigrator_Force(t *testing.T) {
	t.Run("forwards the version", func(t *testing.T) {
		fake := &fakeMigrate{}
		m := &Migrator{m: fake}

		require.NoError(t, m.Force(2))
		assert.Equal(t, 2, fake.forcedTo)
	})

	t.Run("rejects negative versions", func(t *testing.T) {
		fake := &fakeMigrate{}
		m := &Migrator{m: fake}

		err := m.Force(-1)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "INVALID_VERSION")
		assert.Zero(t, fake.forcedTo, "Force must not reach the driver")
	})
}

func TestMigrator_Close(t *testing.T) {
	tests := []struct {
		name    string
		srcErr  error
		dbErr   error
		wantErr bool
	}{
		{name: "clean close"},
		{name: "source error", srcErr: errors.New("fs closed"), wantErr: true},
		{name: "database error", dbErr: errors.New("conn reset"), wantErr: true},
		{name: "both errors", srcErr: errors.New("fs closed"), dbErr: errors.New("conn reset"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Migrator{m: &fakeMigrate{srcErr: tt.srcErr, dbErr: tt.dbErr}}
			err := m.Close()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMigrator_PendingMigrations(t *testing.T) {
	t.Run("all versions pending on a fresh database", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{versionErr: migrate.ErrNilVersion}}

		pending, err := m.PendingMigrations()
		require.NoError(t, err)
		assert.Equal(t, []uint{1}, pending)
	})

	t.Run("nothing pending when up to date", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{version: 1}}

		pending, err := m.PendingMigrations()
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}

func TestAllMigrationVersions(t *testing.T) {
	versions, err := allMigrationVersions()
	require.NoError(t, err)
	require.NotEmpty(t, versions)
	assert.Equal(t, uint(1), versions[0])

	// Every up migration has a matching down migration.
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case len(e.Name()) > 7 && e.Name()[len(e.Name())-7:] == ".up.sql":
			ups++
		case len(e.Name()) > 9 && e.Name()[len(e.Name())-9:] == ".down.sql":
			downs++
		}
	}
	assert.Equal(t, ups, downs)
}
