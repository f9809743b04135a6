package querykey

// Entity key factories. The first segment is always the entity type, followed
// by scope ids from widest to narrowest, then any sub-scope discriminator.
// Invalidating New("issues", ws, proj) therefore covers the list, every
// grouped variant, and every detail key under that project.

// Workspaces keys the workspace collection for the signed-in user.
func Workspaces() Key {
	return New("workspaces")
}

// Projects keys the project collection of a workspace.
func Projects(workspace string) Key {
	return New("projects", workspace)
}

// ProjectDetail keys a single project.
func ProjectDetail(workspace, project string) Key {
	return New("projects", workspace).Append("detail", project)
}

// Issues keys the issue collection of a project.
func Issues(workspace, project string) Key {
	return New("issues", workspace, project)
}

// IssueDetail keys a single issue.
func IssueDetail(workspace, project, issue string) Key {
	return Issues(workspace, project).Append("detail", issue)
}

// IssuesGrouped keys a grouped issue view (e.g. by state).
func IssuesGrouped(workspace, project, groupBy string) Key {
	return Issues(workspace, project).Append("grouped", groupBy)
}

// IssuesFiltered keys a filtered issue list.
func IssuesFiltered(workspace, project string, f Filter) Key {
	return Issues(workspace, project).Append("filtered", f.Encode())
}

// Sprints keys the active sprint collection of a project.
func Sprints(workspace, project string) Key {
	return New("sprints", workspace, project)
}

// SprintsArchived keys the archived sprint collection of a project.
func SprintsArchived(workspace, project string) Key {
	return Sprints(workspace, project).Append("archived")
}

// SprintDetail keys a single sprint.
func SprintDetail(workspace, project, sprint string) Key {
	return Sprints(workspace, project).Append("detail", sprint)
}

// Modules keys the module collection of a project.
func Modules(workspace, project string) Key {
	return New("modules", workspace, project)
}

// ModuleDetail keys a single module.
func ModuleDetail(workspace, project, module string) Key {
	return Modules(workspace, project).Append("detail", module)
}

// Labels keys the label collection of a project.
func Labels(workspace, project string) Key {
	return New("labels", workspace, project)
}

// States keys the workflow state collection of a project.
func States(workspace, project string) Key {
	return New("states", workspace, project)
}

// Pages keys the page collection of a workspace.
func Pages(workspace string) Key {
	return New("pages", workspace)
}

// PageDetail keys a single page.
func PageDetail(workspace, page string) Key {
	return Pages(workspace).Append("detail", page)
}

// Notifications keys a filtered notification list.
func Notifications(workspace string, f Filter) Key {
	return New("notifications", workspace).Append(f.Encode())
}

// NotificationUnreadCount keys the unread counter of a workspace.
func NotificationUnreadCount(workspace string) Key {
	return New("notifications", workspace).Append("unread-count")
}

// Stickies keys the sticky collection of a workspace.
func Stickies(workspace string) Key {
	return New("stickies", workspace)
}

// Favorites keys the favorite collection of a workspace.
func Favorites(workspace string) Key {
	return New("favorites", workspace)
}

// Widgets keys the home widget collection of a workspace.
func Widgets(workspace string) Key {
	return New("widgets", workspace)
}

// Webhooks keys the webhook collection of a workspace.
func Webhooks(workspace string) Key {
	return New("webhooks", workspace)
}

// InstanceConfig keys the deployment metadata singleton.
func InstanceConfig() Key {
	return New("instance-config")
}
