package entity

// Genre dan Director hanya dipakai sebagai lookup
type Genre struct {
	BaseSimple
	Name string `db:"name"`
}

type Director struct {
	BaseSimple
	Name string `db:"name"`
}
