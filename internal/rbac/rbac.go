package rbac

type Role string
type Action string

const (
	RoleClient       Role = "client"
	RoleProfessional Role = "professional"
)

const (
	ActionView           Action = "view"
	ActionManageSections Action = "manage_sections"
	ActionManageItems    Action = "manage_items"
	ActionReact          Action = "react"
	ActionComment        Action = "comment"
)

// Can answers whether a role may perform a workspace action. The table is
// closed: professionals curate sections and items, clients react, both
// comment and view.
func Can(role Role, action Action) bool {
	switch role {
	case RoleProfessional:
		return action == ActionView || action == ActionComment ||
			action == ActionManageSections || action == ActionManageItems
	case RoleClient:
		return action == ActionView || action == ActionComment || action == ActionReact
	default:
		return false
	}
}

func Normalize(role string) Role {
	switch Role(role) {
	case RoleClient, RoleProfessional:
		return Role(role)
	default:
		return RoleClient
	}
}
