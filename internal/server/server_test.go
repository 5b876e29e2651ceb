package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vesselworks/crewcomm/internal/api"
	"github.com/vesselworks/crewcomm/internal/db"
	"github.com/vesselworks/crewcomm/internal/models"
)

func newTestServer(t *testing.T) (*httptest.Server, *db.DB) {
	t.Helper()

	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	srv := New(database)
	ts := httptest.NewServer(srv.Router(Options{}))
	t.Cleanup(ts.Close)
	return ts, database
}

func seedContacts(t *testing.T, database *db.DB) {
	t.Helper()
	repo := db.NewContactRepository(database)
	ctx := context.Background()

	for _, contact := range []*db.Contact{
		{ID: "a", FullName: "Alice Andersen", Role: "health"},
		{ID: "b", FullName: "Bob Tran", Role: "crew"},
		{ID: "c", CrewID: "CR-42", FullName: "Dana Reyes", Role: "health"},
	} {
		require.NoError(t, repo.Upsert(ctx, contact))
	}
}

func clientFor(ts *httptest.Server, operator models.Operator) *api.Client {
	return api.New(ts.URL, operator, 5*time.Second)
}

var operatorDana = models.Operator{ID: "c", CrewID: "CR-42", FullName: "Dana Reyes", Role: models.RoleHealth}

func TestRequiresOperatorIdentity(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/contacts")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDirectoryEndToEnd(t *testing.T) {
	ts, database := newTestServer(t)
	seedContacts(t, database)

	contacts, err := clientFor(ts, operatorDana).LoadDirectory(context.Background(), nil)
	require.NoError(t, err)

	// The operator's own record is excluded client-side.
	require.Len(t, contacts, 2)
	require.Equal(t, "Alice Andersen", contacts[0].DisplayName)
	require.Equal(t, "Bob Tran", contacts[1].DisplayName)
}

func TestSendAndReloadEndToEnd(t *testing.T) {
	ts, database := newTestServer(t)
	seedContacts(t, database)
	client := clientFor(ts, operatorDana)
	ctx := context.Background()

	err := client.SendMessage(ctx, api.SendRequest{ToID: "a", ToName: "Alice Andersen", Content: "Status update"})
	require.NoError(t, err)

	thread, err := client.LoadThread(ctx, "a")
	require.NoError(t, err)
	require.Len(t, thread, 1)
	require.Equal(t, "Status update", thread[0].Content)
	require.True(t, thread[0].IsMine)
	require.Equal(t, models.StatusSent, thread[0].Status)
	require.True(t, thread[0].Editable())
}

func TestStatusProgressionOnRecipientFetch(t *testing.T) {
	ts, database := newTestServer(t)
	seedContacts(t, database)
	ctx := context.Background()

	sender := clientFor(ts, operatorDana)
	recipient := clientFor(ts, models.Operator{ID: "a", FullName: "Alice Andersen", Role: models.RoleHealth})

	require.NoError(t, sender.SendMessage(ctx, api.SendRequest{ToID: "a", Content: "come to medbay"}))

	// Recipient fetches twice: sent -> delivered -> read.
	_, err := recipient.LoadThread(ctx, "c")
	require.NoError(t, err)
	thread, err := recipient.LoadThread(ctx, "c")
	require.NoError(t, err)
	require.Len(t, thread, 1)
	require.Equal(t, models.StatusRead, thread[0].Status)

	// The sender now sees read and the message is no longer editable.
	senderThread, err := sender.LoadThread(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, models.StatusRead, senderThread[0].Status)
	require.False(t, senderThread[0].Editable())
}

func TestEditRestrictedToSender(t *testing.T) {
	ts, database := newTestServer(t)
	seedContacts(t, database)
	ctx := context.Background()

	sender := clientFor(ts, operatorDana)
	other := clientFor(ts, models.Operator{ID: "b", FullName: "Bob Tran", Role: models.RoleCrew})

	require.NoError(t, sender.SendMessage(ctx, api.SendRequest{ToID: "a", Content: "draft advisory"}))
	thread, err := sender.LoadThread(ctx, "a")
	require.NoError(t, err)
	messageID := thread[0].ID

	err = other.UpdateMessage(ctx, messageID, "hijacked")
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusForbidden, statusErr.Code)

	require.NoError(t, sender.UpdateMessage(ctx, messageID, "final advisory"))
	thread, err = sender.LoadThread(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "final advisory", thread[0].Content)
}

func TestDeleteRestrictedToSender(t *testing.T) {
	ts, database := newTestServer(t)
	seedContacts(t, database)
	ctx := context.Background()

	sender := clientFor(ts, operatorDana)
	other := clientFor(ts, models.Operator{ID: "b", FullName: "Bob Tran", Role: models.RoleCrew})

	require.NoError(t, sender.SendMessage(ctx, api.SendRequest{ToID: "a", Content: "obsolete note"}))
	thread, err := sender.LoadThread(ctx, "a")
	require.NoError(t, err)
	messageID := thread[0].ID

	err = other.DeleteMessage(ctx, messageID)
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusForbidden, statusErr.Code)

	require.NoError(t, sender.DeleteMessage(ctx, messageID))
	thread, err = sender.LoadThread(ctx, "a")
	require.NoError(t, err)
	require.Empty(t, thread)

	err = sender.DeleteMessage(ctx, messageID)
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestSendValidation(t *testing.T) {
	ts, database := newTestServer(t)
	seedContacts(t, database)
	client := clientFor(ts, operatorDana)
	ctx := context.Background()

	var statusErr *api.StatusError

	err := client.SendMessage(ctx, api.SendRequest{ToID: "", Content: "no recipient"})
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadRequest, statusErr.Code)

	err = client.SendMessage(ctx, api.SendRequest{ToID: "a", Content: "   "})
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadRequest, statusErr.Code)
}

func TestEditWindowClosesAfterDelivery(t *testing.T) {
	ts, database := newTestServer(t)
	seedContacts(t, database)
	ctx := context.Background()

	sender := clientFor(ts, operatorDana)
	recipient := clientFor(ts, models.Operator{ID: "a", FullName: "Alice Andersen", Role: models.RoleHealth})

	require.NoError(t, sender.SendMessage(ctx, api.SendRequest{ToID: "a", Content: "initial"}))
	thread, err := sender.LoadThread(ctx, "a")
	require.NoError(t, err)
	messageID := thread[0].ID

	// Recipient fetch moves the message to delivered.
	_, err = recipient.LoadThread(ctx, "c")
	require.NoError(t, err)

	err = sender.UpdateMessage(ctx, messageID, "too late")
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusConflict, statusErr.Code)
}
