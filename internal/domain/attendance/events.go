package attendance

import "github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"

type ChangeAction string

const (
	ChangeCreated ChangeAction = "attendance.created"
	ChangeUpdated ChangeAction = "attendance.updated"
	ChangeDeleted ChangeAction = "attendance.deleted"
)

// ChangeEvent tells calendar clients which records moved so they can refetch.
type ChangeEvent struct {
	Action    ChangeAction `json:"action"`
	ActorID   string       `json:"actorId"`
	UserID    string       `json:"userId"`
	RecordIDs []string     `json:"recordIds"`
	Dates     []string     `json:"dates"`
}

const topicAll = "all"

// RecordTopics are the topics a change to owner's records is published on.
// They mirror user.Actor.CanAccess: the owner, managers of a role=user
// owner's department, and admins.
func RecordTopics(owner user.User) []string {
	topics := []string{"user:" + owner.ID, topicAll}
	if owner.Role == user.RoleUser && owner.Department != "" {
		topics = append(topics, "department:"+owner.Department)
	}
	return topics
}

// SubscriberTopics are the topics actor listens on.
func SubscriberTopics(actor user.Actor) []string {
	switch actor.Role {
	case user.RoleAdmin:
		return []string{topicAll}
	case user.RoleManager:
		topics := []string{"user:" + actor.UserID}
		if actor.Department != "" {
			topics = append(topics, "department:"+actor.Department)
		}
		return topics
	default:
		return []string{"user:" + actor.UserID}
	}
}
