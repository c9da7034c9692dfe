package model

import (
	"time"
)

// Part is a single piece of message content. Messages carry exactly one
// text part today; the slice leaves room for more.
type Part struct {
	Text string `json:"text" bson:"text"`
}

type Message struct {
	Role  string `json:"role" bson:"role"` // "user" or "model"
	Parts []Part `json:"parts" bson:"parts"`
	Img   string `json:"img,omitempty" bson:"img,omitempty"`
}

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Chat is one conversation. History is append-only: entries are pushed to
// the end and never edited in place.
type Chat struct {
	ID        string    `json:"_id" bson:"_id"`
	UserID    string    `json:"userId" bson:"user_id"`
	History   []Message `json:"history" bson:"history"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// ChatSummary is one entry of a user's chat index.
type ChatSummary struct {
	ID    string `json:"_id" bson:"_id"`
	Title string `json:"title" bson:"title"`
}

// UserChats holds the per-user chat index. For every chat a user owns
// exactly one summary with the same id must exist here, and vice versa.
type UserChats struct {
	UserID string        `json:"userId" bson:"user_id"`
	Chats  []ChatSummary `json:"chats" bson:"chats"`
}

// ChatRef is a projection of a chat used for index ordering and repair.
type ChatRef struct {
	ID        string
	UpdatedAt time.Time
	FirstText string
}

type Document struct {
	ID         string    `json:"_id" bson:"_id"`
	UserID     string    `json:"userId" bson:"user_id"`
	Title      string    `json:"title" bson:"title"`
	Path       string    `json:"path" bson:"path"`
	Size       int64     `json:"size" bson:"size"`
	Type       string    `json:"type" bson:"type"`
	UploadDate time.Time `json:"uploadDate" bson:"upload_date"`
}

type User struct {
	ID        string    `json:"_id" bson:"_id"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}
