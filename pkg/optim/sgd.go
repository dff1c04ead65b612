package optim

// SGD is a gradient descent optimizer with learning rate and optional L2
// weight decay.
type SGD struct {
	LearningRate float64
	WeightDecay  float64
}

func NewSGD(lr, decay float64) *SGD { return &SGD{LearningRate: lr, WeightDecay: decay} }

// Step updates weights in place from their gradients, folding the L2 decay
// term into the gradient.
func (o *SGD) Step(weights, grads []float64) {
	for i := range weights {
		weights[i] -= o.LearningRate * (grads[i] + o.WeightDecay*weights[i])
	}
}
