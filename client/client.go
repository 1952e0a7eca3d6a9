// Package client talks to a shapeinfer server.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	j "github.com/goccy/go-json"

	"github.com/siegeai/shapeinfer/jsonschema"
)

var (
	ErrUnexpectedResponse = errors.New("unexpected response code")
	ErrNotFound           = errors.New("collection not found")
)

type Client struct {
	Server string
	HTTP   *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.HTTP = c
	}
}

func New(server string, opts ...Option) *Client {
	c := &Client{Server: server, HTTP: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Collection struct {
	ID      string `json:"id"`
	Samples int    `json:"samples"`
}

// Infer posts samples, one or more JSON documents, and returns the inferred schema.
func (c *Client) Infer(ctx context.Context, samples []byte) (*jsonschema.Document, error) {
	var d jsonschema.Document
	if err := c.do(ctx, http.MethodPost, "/infer", samples, http.StatusOK, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) CreateCollection(ctx context.Context) (*Collection, error) {
	var res Collection
	if err := c.do(ctx, http.MethodPost, "/collections", nil, http.StatusCreated, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// AddSamples folds samples into the collection and returns its updated state.
func (c *Client) AddSamples(ctx context.Context, id string, samples []byte) (*Collection, error) {
	var res Collection
	if err := c.do(ctx, http.MethodPost, "/collections/"+id+"/samples", samples, http.StatusOK, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Schema(ctx context.Context, id string) (*jsonschema.Document, error) {
	var d jsonschema.Document
	if err := c.do(ctx, http.MethodGet, "/collections/"+id+"/schema", nil, http.StatusOK, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) DeleteCollection(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/collections/"+id, nil, http.StatusNoContent, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, want int, out any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.formatURL(path), r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.StatusCode != want {
		return fmt.Errorf("%w %d", ErrUnexpectedResponse, res.StatusCode)
	}
	if out == nil {
		return nil
	}
	return j.NewDecoder(res.Body).Decode(out)
}

func (c *Client) formatURL(path string) string {
	return fmt.Sprintf("%s%s", c.Server, path)
}
