package rules

func HasLevelChanged(gameLevel, tableLevel int) bool {
	return gameLevel != tableLevel
}

// ShouldColorUp is true when the minimum chip went up since the last level.
func ShouldColorUp(previousMinChip, currentMinChip int) bool {
	return currentMinChip > previousMinChip
}

// ShouldProcessAllComputerLevelCheck reports whether level bookkeeping is
// cascaded to all-computer tables. Only the host does it, and only while
// processing the table the human is watching, so those tables stay hand
// for hand with it.
func ShouldProcessAllComputerLevelCheck(host, currentTable bool) bool {
	return host && currentTable
}

func ShouldProcessAllComputerColorUp(host, currentTable, coloringUp bool) bool {
	return host && currentTable && coloringUp
}

// HasBreakEnded is true once the level moved on from a break level.
func HasBreakEnded(breakLevel, levelChanged bool) bool {
	return levelChanged && breakLevel
}

// TimeRemaining never goes below zero.
func TimeRemaining(levelSeconds, elapsedSeconds int) int {
	return max(0, levelSeconds-elapsedSeconds)
}

func ShouldAdvanceLevel(secondsRemaining int) bool {
	return secondsRemaining <= 0
}

// Message keys used when announcing a level transition.
const (
	MsgChatBreak      = "msg.chat.break"
	MsgDialogBreak    = "msg.dialog.break"
	MsgChatNext       = "msg.chat.next"
	MsgChatNextAnte   = "msg.chat.next.ante"
	MsgDialogNext     = "msg.dialog.next"
	MsgDialogNextAnte = "msg.dialog.next.ante"
)

func BreakMessageKey(online bool) string {
	if online {
		return MsgChatBreak
	}
	return MsgDialogBreak
}

func LevelMessageKey(online, hasAnte bool) string {
	switch {
	case online && hasAnte:
		return MsgChatNextAnte
	case online:
		return MsgChatNext
	case hasAnte:
		return MsgDialogNextAnte
	default:
		return MsgDialogNext
	}
}

// TransitionMessageKey picks the announcement for entering a level.
func TransitionMessageKey(isBreak, online, hasAnte bool) string {
	if isBreak {
		return BreakMessageKey(online)
	}
	return LevelMessageKey(online, hasAnte)
}

func IsPlayerEligibleForRebuy(observer, eliminated bool) bool {
	return !observer && !eliminated
}
