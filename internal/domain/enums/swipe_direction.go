package enums

type SwipeDirection string

const (
	SwipeDirectionReject    SwipeDirection = "REJECT"
	SwipeDirectionLike      SwipeDirection = "LIKE"
	SwipeDirectionSuperLike SwipeDirection = "SUPERLIKE"
)

// Mutual returns whether the direction counts toward a mutual match.
func (d SwipeDirection) Mutual() bool {
	return d == SwipeDirectionLike || d == SwipeDirectionSuperLike
}
