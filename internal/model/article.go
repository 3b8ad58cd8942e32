package model

import (
	"errors"
	"fmt"
	"strings"
)

type Topic string

const (
	TopicJavaScript Topic = "JavaScript"
	TopicReact      Topic = "React"
	TopicNode       Topic = "Node"
)

// Topics lists the topics the API accepts, in display order.
var Topics = []Topic{TopicJavaScript, TopicReact, TopicNode}

var ErrInvalidArticle = errors.New("invalid article")

// Article is an article as confirmed by the API.
type Article struct {
	ID    int    `json:"article_id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Topic Topic  `json:"topic"`
}

// ArticleInput is the payload of a create or update request.
type ArticleInput struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Topic Topic  `json:"topic"`
}

// Input returns the editable fields of the article.
func (a Article) Input() ArticleInput {
	return ArticleInput{Title: a.Title, Text: a.Text, Topic: a.Topic}
}

// ParseTopic matches a topic case-insensitively.
func ParseTopic(s string) (Topic, error) {
	for _, t := range Topics {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown topic %q", ErrInvalidArticle, s)
}

// Normalize trims the text fields and checks the input can be sent.
func (in ArticleInput) Normalize() (ArticleInput, error) {
	out := ArticleInput{
		Title: strings.TrimSpace(in.Title),
		Text:  strings.TrimSpace(in.Text),
	}
	if out.Title == "" {
		return out, fmt.Errorf("%w: title is required", ErrInvalidArticle)
	}
	if out.Text == "" {
		return out, fmt.Errorf("%w: text is required", ErrInvalidArticle)
	}
	topic, err := ParseTopic(string(in.Topic))
	if err != nil {
		return out, err
	}
	out.Topic = topic
	return out, nil
}

// Credentials are sent to the login endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var ErrInvalidCredentials = errors.New("username and password are required")

// Normalize trims the username. The password is sent as typed.
func (c Credentials) Normalize() (Credentials, error) {
	c.Username = strings.TrimSpace(c.Username)
	if c.Username == "" || c.Password == "" {
		return c, ErrInvalidCredentials
	}
	return c, nil
}
