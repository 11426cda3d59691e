package logic

// Verify returns how many leading positions of entered match stored.
// Matching stops at the first mismatch; CodeLen means the code is accepted.
func Verify(entered, stored Code) int {
	depth := 0
	for i := 0; i < CodeLen; i++ {
		if entered[i] != stored[i] {
			break
		}
		depth++
	}
	return depth
}
