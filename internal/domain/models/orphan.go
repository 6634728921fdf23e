package models

import "time"

type OrphanKind string

const (
	// объект лежит в хранилище, но запись о нём не сохранилась
	OrphanRemoteObject OrphanKind = "remote_object"
	// объект из хранилища удалён, а запись осталась
	OrphanLocalRecord OrphanKind = "local_record"
)

// Orphan фиксирует рассогласование между хранилищем и базой для ручной чистки
type Orphan struct {
	Kind      OrphanKind `json:"kind"`
	PhotoID   string     `json:"photo_id,omitempty"`
	PublicID  string     `json:"public_id"`
	ImageURL  string     `json:"image_url,omitempty"`
	Reason    string     `json:"reason"`
	CreatedAt time.Time  `json:"created_at"`
}
