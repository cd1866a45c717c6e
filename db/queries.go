package db

import (
	_ "embed"
)

// Schema

//go:embed sql/create_tables.sql
var CreateTablesSQL string

// Clip history queries

//go:embed sql/insert_clip.sql
var InsertClipSQL string

//go:embed sql/mark_clip_complete.sql
var MarkClipCompleteSQL string

//go:embed sql/mark_clip_error.sql
var MarkClipErrorSQL string

//go:embed sql/select_clip_by_id.sql
var SelectClipByIDSQL string

//go:embed sql/select_recent_clips.sql
var SelectRecentClipsSQL string
