package models

type MessageType int

const (
	User MessageType = iota
	Assistant
	Program
	Thought
)

type Message struct {
	Content string
	Type    MessageType
}
