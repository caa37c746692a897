package types

// Entity is implemented by every row type stored in a Table.
type Entity interface {
	EntityID() string
	SetEntityID(id string)
}

func (u *User) EntityID() string { return u.ID }

func (u *User) SetEntityID(id string) { u.ID = id }

func (p *Project) EntityID() string { return p.ID }

func (p *Project) SetEntityID(id string) { p.ID = id }

func (t *Task) EntityID() string { return t.ID }

func (t *Task) SetEntityID(id string) { t.ID = id }

func (a *Assignee) EntityID() string { return a.ID }

func (a *Assignee) SetEntityID(id string) { a.ID = id }

func (c *Comment) EntityID() string { return c.ID }

func (c *Comment) SetEntityID(id string) { c.ID = id }

func (a *Access) EntityID() string { return a.ID }

func (a *Access) SetEntityID(id string) { a.ID = id }
