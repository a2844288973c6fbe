package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
)

type fakeAdmins struct {
	got *models.CreateStaffRequest
	err error
}

func (f *fakeAdmins) Create(_ context.Context, req models.CreateStaffRequest) (*models.AdminDetail, error) {
	f.got = &req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AdminDetail{Admin: models.Admin{ID: "admin-1"}, Username: req.Username, Email: req.Email}, nil
}

type migrateCall struct {
	command string
	args    []string
}

func setup(admins *fakeAdmins, calls *[]migrateCall) (*commandLine, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &commandLine{
		admins: admins,
		migrate: func(_ context.Context, _ *sql.DB, command string, args ...string) error {
			if command == "bogus" {
				return errors.New("\"bogus\": no such command")
			}
			*calls = append(*calls, migrateCall{command: command, args: args})
			return nil
		},
		out: out,
	}, out
}

func withPasswords(t *testing.T, answers ...string) {
	t.Helper()
	original := readPasswordFunc
	t.Cleanup(func() { readPasswordFunc = original })
	readPasswordFunc = func(int) ([]byte, error) {
		if len(answers) == 0 {
			return nil, errors.New("no more input")
		}
		next := answers[0]
		answers = answers[1:]
		return []byte(next), nil
	}
}

var adminFlags = []string{"admin", "createadmin", "-username", "registrar", "-email", "registrar@example.com", "-first", "Ada", "-last", "Lovelace", "-contact", "09171234567"}

func TestRunUsage(t *testing.T) {
	var calls []migrateCall
	cli, out := setup(&fakeAdmins{}, &calls)

	assert.ErrorIs(t, cli.run(context.Background(), []string{"admin"}), errHelp)
	assert.ErrorIs(t, cli.run(context.Background(), []string{"admin", "serve"}), errHelp)
	assert.ErrorIs(t, cli.run(context.Background(), []string{"admin", "migrate"}), errHelp)
	assert.Contains(t, out.String(), "createadmin")
	assert.Empty(t, calls)
}

func TestRunMigrate(t *testing.T) {
	var calls []migrateCall
	cli, out := setup(&fakeAdmins{}, &calls)

	require.NoError(t, cli.run(context.Background(), []string{"admin", "migrate", "up"}))
	require.NoError(t, cli.run(context.Background(), []string{"admin", "migrate", "down-to", "1"}))
	assert.EqualError(t, cli.run(context.Background(), []string{"admin", "migrate", "bogus"}), "\"bogus\": no such command")

	require.Len(t, calls, 2)
	assert.Equal(t, "up", calls[0].command)
	assert.Empty(t, calls[0].args)
	assert.Equal(t, "down-to", calls[1].command)
	assert.Equal(t, []string{"1"}, calls[1].args)
	assert.Contains(t, out.String(), "migrate up: done")
}

func TestRunCreateAdmin(t *testing.T) {
	withPasswords(t, "s3cret!", "s3cret!")
	admins := &fakeAdmins{}
	var calls []migrateCall
	cli, out := setup(admins, &calls)

	require.NoError(t, cli.run(context.Background(), append(adminFlags, "-middle", "King")))

	require.NotNil(t, admins.got)
	assert.Equal(t, "registrar", admins.got.Username)
	assert.Equal(t, "s3cret!", admins.got.Password)
	assert.Equal(t, "09171234567", admins.got.ContactNo)
	require.NotNil(t, admins.got.MiddleName)
	assert.Equal(t, "King", *admins.got.MiddleName)
	assert.Contains(t, out.String(), "admin registrar created (admin-1)")
}

func TestRunCreateAdminRejectsBadInput(t *testing.T) {
	t.Run("missing flags", func(t *testing.T) {
		admins := &fakeAdmins{}
		var calls []migrateCall
		cli, _ := setup(admins, &calls)

		err := cli.run(context.Background(), []string{"admin", "createadmin", "-username", "registrar"})
		assert.ErrorIs(t, err, errHelp)
		assert.Nil(t, admins.got)
	})

	t.Run("empty password", func(t *testing.T) {
		withPasswords(t, "")
		admins := &fakeAdmins{}
		var calls []migrateCall
		cli, _ := setup(admins, &calls)

		assert.ErrorIs(t, cli.run(context.Background(), adminFlags), errHelp)
		assert.Nil(t, admins.got)
	})

	t.Run("confirmation mismatch", func(t *testing.T) {
		withPasswords(t, "s3cret!", "different")
		admins := &fakeAdmins{}
		var calls []migrateCall
		cli, _ := setup(admins, &calls)

		assert.EqualError(t, cli.run(context.Background(), adminFlags), "passwords do not match")
		assert.Nil(t, admins.got)
	})

	t.Run("service error", func(t *testing.T) {
		withPasswords(t, "s3cret!", "s3cret!")
		admins := &fakeAdmins{err: errors.New("Username or email already exists")}
		var calls []migrateCall
		cli, _ := setup(admins, &calls)

		assert.EqualError(t, cli.run(context.Background(), adminFlags), "Username or email already exists")
	})
}
