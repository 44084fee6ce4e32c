package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"roomchat/domain"
	"roomchat/storage"
)

// Offline viewer for a room's stored messages. Opens the store read-only so
// it can run next to a live server.
func main() {
	dbPath := flag.String("db", "/tmp/roomchat", "Path to badger DB")
	roomID := flag.Int("room", 1, "Room id to inspect")
	limit := flag.Int("limit", 50, "Maximum messages to display")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	messages, err := collectMessages(db, domain.RoomID(*roomID), *limit)
	if err != nil {
		log.Fatal(err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Time", "User", "Toxic", "Body"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	rows := lo.Map(messages, func(msg domain.Message, _ int) []string {
		toxic := ""
		if msg.Toxic {
			toxic = "yes"
		}
		// First 8 characters of the id are enough to tell rows apart.
		return []string{
			msg.ID.String()[:8],
			msg.CreatedAt.Format("15:04:05"),
			msg.Username,
			toxic,
			msg.Body,
		}
	})
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()

	flagged := lo.CountBy(messages, func(msg domain.Message) bool { return msg.Toxic })
	color.Cyan.Printf("\n%d messages in room %d, %d flagged\n", len(messages), *roomID, flagged)
}

func openDB(path string) (*badger.DB, error) {
	// BypassLockGuard allows opening while the server holds the lock.
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	return badger.Open(opts)
}

func collectMessages(db *badger.DB, room domain.RoomID, limit int) ([]domain.Message, error) {
	prefix := []byte(fmt.Sprintf("msg:%d:", room))

	var messages []domain.Message
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix) && len(messages) < limit; it.Next() {
			err := it.Item().Value(func(v []byte) error {
				msg, err := storage.DecodeMessage(v)
				if err != nil {
					// Log the broken row and keep scanning.
					fmt.Printf("Error decoding key %s: %v\n", string(it.Item().Key()), err)
					return nil
				}
				messages = append(messages, msg)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return messages, err
}
