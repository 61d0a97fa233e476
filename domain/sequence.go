package domain

// Sequence issues monotonically increasing values for generated project
// identifiers; consumed with an optimistic row-version update.
type Sequence struct {
	Name      string `json:"name" gorm:"primary_key" sql:"type:VARCHAR(32) NOT NULL"`
	NextValue int    `json:"nextValue" sql:"type:BIGINT UNSIGNED NOT NULL"`
}
