package api

import "context"

// Event is a single calendar entry.
type Event struct {
	ID          int    `json:"id"`
	Date        string `json:"date,omitempty"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Events returns all calendar entries grouped by date (YYYY-MM-DD).
func (c *Client) Events(ctx context.Context) (map[string][]Event, error) {
	var events map[string][]Event
	if err := c.get(ctx, "/events", &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CreateEvent adds a calendar entry and returns it with its assigned id.
func (c *Client) CreateEvent(ctx context.Context, date, eventType, description string) (Event, error) {
	body := struct {
		Date        string `json:"date"`
		Type        string `json:"type"`
		Description string `json:"description"`
	}{Date: date, Type: eventType, Description: description}

	var resp struct {
		Data Event `json:"data"`
	}
	if err := c.post(ctx, "/events", body, &resp); err != nil {
		return Event{}, err
	}
	return resp.Data, nil
}

// DeleteEvent removes an entry by id. When id is zero the backend falls back
// to matching date plus description.
func (c *Client) DeleteEvent(ctx context.Context, id int, date, description string) error {
	body := struct {
		ID          int    `json:"id,omitempty"`
		Date        string `json:"date,omitempty"`
		Description string `json:"description,omitempty"`
	}{ID: id, Date: date, Description: description}
	return c.post(ctx, "/events/delete", body, nil)
}

// ExtractEvents sends a schedule photo to the backend, which parses it and
// adds any recognized entries to the calendar.
func (c *Client) ExtractEvents(ctx context.Context, imageB64 string) ([]Event, error) {
	body := struct {
		Image string `json:"image"`
	}{Image: imageB64}

	var resp struct {
		Events []Event `json:"events"`
	}
	if err := c.post(ctx, "/chat/extract-events", body, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}
