package problem

// FallbackProblems is the built-in seed set used when no catalog is
// reachable and the database is empty.
func FallbackProblems() []Problem {
	return []Problem{
		{
			ID:         "two-sum",
			Title:      "Two Sum",
			Difficulty: DifficultyEasy,
			Statement: "Given an array of integers nums and an integer target, return " +
				"indices of the two numbers such that they add up to target. You may " +
				"assume that each input has exactly one solution, and you may not use " +
				"the same element twice.",
			TestCases: []TestCase{
				{Input: "nums = [2,7,11,15], target = 9", Expected: "[0,1]"},
				{Input: "nums = [3,2,4], target = 6", Expected: "[1,2]"},
				{Input: "nums = [3,3], target = 6", Expected: "[0,1]"},
			},
			Source: "builtin",
		},
		{
			ID:         "valid-parentheses",
			Title:      "Valid Parentheses",
			Difficulty: DifficultyEasy,
			Statement: "Given a string s containing just the characters '(', ')', '{', " +
				"'}', '[' and ']', determine if the input string is valid. Brackets " +
				"must be closed by the same type and in the correct order.",
			TestCases: []TestCase{
				{Input: `s = "()[]{}"`, Expected: "true"},
				{Input: `s = "([)]"`, Expected: "false"},
				{Input: `s = "("`, Expected: "false"},
			},
			Source: "builtin",
		},
		{
			ID:         "merge-k-sorted-lists",
			Title:      "Merge k Sorted Lists",
			Difficulty: DifficultyHard,
			Statement: "You are given an array of k linked lists, each sorted in " +
				"ascending order. Merge all the lists into one sorted linked list and " +
				"return it.",
			TestCases: []TestCase{
				{Input: "lists = [[1,4,5],[1,3,4],[2,6]]", Expected: "[1,1,2,3,4,4,5,6]"},
				{Input: "lists = []", Expected: "[]"},
				{Input: "lists = [[]]", Expected: "[]"},
			},
			Source: "builtin",
		},
	}
}
