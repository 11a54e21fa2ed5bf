package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// File is one ledger record for a produced file. Owner is empty for
// anonymous one-shot processing; such records are never listable and
// exist only until delivery or the next expiry sweep.
type File struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner         string             `bson:"owner,omitempty" json:"-"`
	ToolType      ToolType           `bson:"tool_type" json:"tool_type"`
	OriginalName  string             `bson:"original_name" json:"original_name"`
	StoredName    string             `bson:"stored_name" json:"-"`
	SizeBytes     int64              `bson:"size_bytes" json:"size_bytes"`
	DownloadCount int64              `bson:"download_count" json:"download_count"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	ExpiresAt     time.Time          `bson:"expires_at" json:"expires_at"`
}
