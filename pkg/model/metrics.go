package model

// Accuracy returns the fraction of matching predictions.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// ConfusionMatrix counts actual-vs-predicted pairs over k classes:
// entry [i][j] is the number of samples with actual class i predicted as
// class j, in class-enumeration order.
func ConfusionMatrix(yTrue, yPred []int, k int) [][]int {
	cm := make([][]int, k)
	for i := range cm {
		cm[i] = make([]int, k)
	}
	for i := range yTrue {
		cm[yTrue[i]][yPred[i]]++
	}
	return cm
}
