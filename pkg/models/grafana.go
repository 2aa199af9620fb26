package models

import "time"

// Dashboard is a Grafana dashboard summary as returned by the
// dashboard and search APIs.
type Dashboard struct {
	ID          int        `json:"id,omitempty"`
	UID         string     `json:"uid"`
	Title       string     `json:"title"`
	Tags        []string   `json:"tags,omitempty"`
	Version     int        `json:"version,omitempty"`
	Created     *time.Time `json:"created,omitempty"`
	Updated     *time.Time `json:"updated,omitempty"`
	FolderID    int        `json:"folderId,omitempty"`
	FolderTitle string     `json:"folderTitle,omitempty"`
}

// Datasource is a Grafana datasource.
type Datasource struct {
	ID        int            `json:"id"`
	UID       string         `json:"uid"`
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	URL       string         `json:"url"`
	Access    string         `json:"access"`
	IsDefault bool           `json:"isDefault"`
	JSONData  map[string]any `json:"jsonData,omitempty"`
}

// Folder is a Grafana dashboard folder.
type Folder struct {
	ID      int    `json:"id"`
	UID     string `json:"uid"`
	Title   string `json:"title"`
	Version int    `json:"version,omitempty"`
}
